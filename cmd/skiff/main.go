// Package main is the entry point for the skiff CLI.
package main

import (
	"fmt"
	"os"

	"github.com/skiffhq/skiff/cmd/skiff/commands"
	"github.com/skiffhq/skiff/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		code := errors.ExitSystem
		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "Error: %v\n%s\n", err, exitErr.Suggestion)
				os.Exit(code)
			}
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}
