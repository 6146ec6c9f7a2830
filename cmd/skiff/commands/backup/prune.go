package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/errors"
	"github.com/skiffhq/skiff/internal/logging"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"Number of backups to retain")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove old backups beyond the retention count.

By default, keeps the 10 most recent backups and removes older ones.
Use the --keep flag to specify a different retention count.`,
	Example: `  # Keep the default number of backups
  skiff backup prune

  # Keep only the 3 most recent backups
  skiff backup prune --keep 3

  # Remove all backups (keep 0)
  skiff backup prune --keep 0

  See Also:
    skiff backup list   - List stored backups
    skiff backup export - Export a new backup`,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	return runPruneWithWriter(cmd, os.Stdout)
}

func runPruneWithWriter(cmd *cobra.Command, w io.Writer) error {
	if pruneKeep < 0 {
		return errors.New("--keep must be non-negative")
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	logging.FromContext(cmd.Context()).Debug("pruning backups", "keep", pruneKeep)

	removed, err := mgr.Prune(pruneKeep)
	if err != nil {
		return errors.Wrap(err, "pruning backups")
	}

	if len(removed) == 0 {
		fmt.Fprintln(w, "No backups to prune")
		return nil
	}

	for _, id := range removed {
		fmt.Fprintln(w, color.YellowString("✗ removed %s", id))
	}
	fmt.Fprintf(w, "\nTotal: removed %d backup(s)\n", len(removed))

	return nil
}
