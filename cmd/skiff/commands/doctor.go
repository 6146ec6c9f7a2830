package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skiffhq/skiff/cmd/skiff/commands/flags"
	"github.com/skiffhq/skiff/internal/doctor"
	"github.com/skiffhq/skiff/internal/errors"
	"github.com/skiffhq/skiff/internal/paths"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"attempt to fix fixable issues")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and state issues",
	Long: `Run diagnostic checks on skiff's configuration, stores, and backups.

Validates the configuration file, parses every store file, verifies that
credential files are private, checks service connection settings, and
reads every backup document header.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.New("flags --json, --quiet, and --verbose are mutually exclusive")
	}

	return nil
}

func runDoctor(_ *cobra.Command, _ []string) error {
	cfg := flags.GetConfig()
	storesDir := paths.StoresDir()

	backupDir := cfg.BackupDir
	if backupDir == "" {
		backupDir = paths.BackupsDir()
	}

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(cfg))
	runner.AddCheck(doctor.NewStoreSyntaxCheck(storesDir))
	runner.AddCheck(doctor.NewPermissionCheck(storesDir))
	runner.AddCheck(doctor.NewServicesCheck(storesDir))
	runner.AddCheck(doctor.NewBackupIntegrityCheck(backupDir))

	report := runner.Run()

	if doctorFix {
		applyFixes(runner)
		// Re-run so the report reflects the fixed state
		report = runner.Run()
	}

	if err := outputDoctorReport(report); err != nil {
		return err
	}

	// Determine exit code based on results
	if report.HasErrors() {
		return errDoctorErrors
	}
	if report.HasWarnings() {
		return errDoctorWarnings
	}
	return nil
}

// applyFixes runs the Fixer on every check that supports it.
func applyFixes(runner *doctor.Runner) {
	for _, check := range runner.Checks() {
		fixer, ok := check.(doctor.Fixer)
		if !ok || !fixer.CanFix() {
			continue
		}
		for _, fix := range fixer.Fix() {
			if doctorQuiet {
				continue
			}
			icon := "✓"
			if !fix.Fixed {
				icon = "✗"
			}
			fmt.Printf("%s fix %s: %s\n", icon, fix.Path, fix.Description)
		}
	}
}

func outputDoctorReport(report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(report)
	}

	return outputDoctorText(report)
}

func outputDoctorJSON(report *doctor.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func outputDoctorText(report *doctor.Report) error {
	// In normal mode, show only errors and warnings
	// In verbose mode, show all checks
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		icon := statusIcon(result.Status)
		fmt.Printf("%s [%s] %s: %s\n", icon, result.Category, result.Name, result.Message)

		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			fmt.Printf("  hint: %s\n", result.FixHint)
		}
	}

	// Print summary
	if hasOutput || showAll {
		fmt.Println()
	}

	fmt.Printf("Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorWarnings carries exit code 1.
var errDoctorWarnings = errors.NewExitError(errors.New("warnings found"), errors.ExitUser)

// errDoctorErrors carries exit code 2.
var errDoctorErrors = errors.NewExitError(errors.New("errors found"), errors.ExitSystem)
