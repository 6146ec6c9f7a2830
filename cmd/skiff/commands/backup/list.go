package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored backups",
	Long: `List all stored backups, most recent first.

Section names and encryption status are readable without a password,
so the list shows what each backup contains.`,
	Example: `  # List all backups
  skiff backup list

  # Output as JSON
  skiff backup list --json

  See Also:
    skiff backup restore - Restore from a backup
    skiff backup export  - Export a new backup`,
	RunE: runList,
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	AppVersion   string    `json:"app_version"`
	Encrypted    bool      `json:"encrypted"`
	SectionCount int       `json:"section_count"`
	Sections     []string  `json:"sections"`
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout)
}

func runListWithWriter(w io.Writer) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	artifacts, err := mgr.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrap(err, "listing backups")
	}

	if listJSON {
		return outputListJSON(w, artifacts)
	}
	return outputListTabular(w, artifacts)
}

func outputListJSON(w io.Writer, artifacts []backup.Artifact) error {
	output := make([]infoOutput, len(artifacts))
	for i, a := range artifacts {
		output[i] = infoOutput{
			ID:           a.ID,
			CreatedAt:    a.CreatedAt,
			AppVersion:   a.AppVersion,
			Encrypted:    a.IsEncrypted(),
			SectionCount: len(a.Sections),
			Sections:     a.Sections,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "encoding output")
}

func outputListTabular(w io.Writer, artifacts []backup.Artifact) error {
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: skiff backup export")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		bold("ID"), bold("CREATED"), bold("SECTIONS"), bold("ENCRYPTED"), bold("VERSION"))

	for _, a := range artifacts {
		encrypted := "no"
		if a.IsEncrypted() {
			encrypted = string(a.Codec)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			color.GreenString(a.ID),
			a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(a.Sections),
			encrypted,
			a.AppVersion)
	}
	return errors.Wrap(tw.Flush(), "flushing output")
}
