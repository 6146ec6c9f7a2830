package doctor

import (
	"fmt"
	"os"

	"github.com/skiffhq/skiff/internal/errors"
)

// Fixer is an optional interface that checks can implement to support auto-remediation.
// Checks that implement Fixer can fix issues they detect when the --fix flag is used.
type Fixer interface {
	// CanFix returns true if this check has fixable issues.
	// Must be called after Run() to check if there are issues that can be fixed.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run().
	// Returns a slice of FixResult indicating what was fixed or why it couldn't be fixed.
	// Must be called after Run().
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file or directory that was targeted for fixing.
	Path string

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool

	// Description explains what was fixed or why it couldn't be fixed.
	Description string

	// Error contains the error if the fix failed.
	Error error
}

// PermissionFixer fixes file and directory permission issues.
// It is embedded in PermissionCheck to provide fix capability.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable permission issues.
func (f *PermissionFixer) CanFix() bool {
	for _, issue := range f.issues {
		if issue.Fixable {
			return true
		}
	}
	return false
}

// Fix attempts to fix all fixable permission issues.
// Returns a FixResult for each fixable issue.
func (f *PermissionFixer) Fix() []FixResult {
	var results []FixResult
	for _, issue := range f.issues {
		if !issue.Fixable {
			continue
		}
		results = append(results, f.fixIssue(issue))
	}
	return results
}

// fixIssue tightens the permissions of a single path to its target mode.
func (f *PermissionFixer) fixIssue(issue pathIssue) FixResult {
	result := FixResult{
		Path: issue.Path,
	}

	if err := os.Chmod(issue.Path, issue.Target); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", issue.Target, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", issue.Target, issue.Path)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", issue.Target)
	return result
}

// setIssues stores the issues found by the check for later fixing.
// This is called internally by PermissionCheck after running.
func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	count := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			count++
		}
	}
	return count
}
