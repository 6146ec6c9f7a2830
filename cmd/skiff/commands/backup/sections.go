package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/errors"
)

var sectionsJSON bool

func init() {
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(sectionsCmd)
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Show what a backup can contain",
	Long: `Show every section a backup can contain, with its default selection
and whether it holds sensitive data.

Sensitive sections (credentials, API keys) are excluded from exports
unless explicitly requested, and should be encrypted when included.`,
	Example: `  # Show the section catalog
  skiff backup sections

  # Output as JSON
  skiff backup sections --json

  See Also:
    skiff backup export - Export a backup with chosen sections`,
	RunE: runSections,
}

// sectionOutput represents a catalog entry in JSON output.
type sectionOutput struct {
	Key       string `json:"key"`
	Enabled   bool   `json:"enabled"`
	Sensitive bool   `json:"sensitive"`
}

func runSections(_ *cobra.Command, _ []string) error {
	return runSectionsWithWriter(os.Stdout)
}

func runSectionsWithWriter(w io.Writer) error {
	catalog := backup.SelectionCatalog()

	if sectionsJSON {
		output := make([]sectionOutput, 0, len(catalog))
		for _, key := range backup.SectionOrder() {
			desc := catalog[key]
			output = append(output, sectionOutput{
				Key:       key,
				Enabled:   desc.Enabled,
				Sensitive: desc.Sensitive,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(output), "encoding output")
	}

	bold := color.New(color.Bold).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", bold("SECTION"), bold("DEFAULT"), bold("SENSITIVE"))

	for _, key := range backup.SectionOrder() {
		desc := catalog[key]
		enabled := "off"
		if desc.Enabled {
			enabled = "on"
		}
		sensitive := ""
		if desc.Sensitive {
			sensitive = color.YellowString("yes")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", key, enabled, sensitive)
	}
	return errors.Wrap(tw.Flush(), "flushing output")
}
