// Package editor provides utilities for launching the user's preferred text editor.
package editor

import (
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Open launches the user's preferred editor for the given path and waits
// for it to exit.
func Open(path string) error {
	cmd := exec.Command(Detect(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}

	return nil
}

// Detect returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func Detect() string {
	// Check $EDITOR first (most common)
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Then $VISUAL (for full-screen editors)
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// User-friendly fallback (nano is easier for beginners)
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	// POSIX standard fallback (vi is available on all Unix systems)
	return "vi"
}
