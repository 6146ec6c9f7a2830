package backup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/errors"
	"github.com/skiffhq/skiff/internal/logging"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Restore from a backup",
	Long: `Restore skiff's local state from a backup document.

Without an ID, an interactive picker lists the stored backups. Encrypted
backups prompt for the password (or read SKIFF_BACKUP_PASSWORD).

Restore is all-or-nothing: the backup is decrypted and checked in full
before any store is touched, so a wrong password or corrupted file
leaves local state exactly as it was.`,
	Example: `  # Pick a backup interactively
  skiff backup restore

  # Restore a specific backup
  skiff backup restore 20260812T093045-1a2b3c4d

  See Also:
    skiff backup list   - List stored backups
    skiff backup export - Export a new backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	return runRestoreWithWriter(cmd, args, os.Stdout)
}

func runRestoreWithWriter(cmd *cobra.Command, args []string, w io.Writer) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		id, err = pickArtifact(mgr)
		if err != nil {
			return err
		}
		if id == "" {
			// Picker aborted
			return nil
		}
	}

	artifact, err := mgr.Get(id)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(err, "Run: skiff backup list")
		}
		return errors.Wrapf(err, "reading backup %s", id)
	}

	var password string
	if artifact.IsEncrypted() {
		password, err = resolveRestorePassword()
		if err != nil {
			return err
		}
	}

	logger := logging.FromContext(cmd.Context())
	logger.Debug("restoring backup", "id", id, "encrypted", artifact.IsEncrypted())

	restored, err := mgr.Restore(cmd.Context(), id, password)
	if err != nil {
		return errors.Wrapf(err, "restoring backup %s", id)
	}
	logger.Debug("stores restored", "sections", restored)

	fmt.Fprintln(w, color.GreenString("✓ Restored backup %s", id))
	fmt.Fprintf(w, "  sections: %s\n", strings.Join(restored, ", "))

	return nil
}

// pickArtifact runs the interactive backup picker. Returns an empty ID
// when the user aborts.
func pickArtifact(mgr *backup.Manager) (string, error) {
	artifacts, err := mgr.List()
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return "", errors.NewUserError(err, "Run: skiff backup export")
		}
		return "", errors.Wrap(err, "listing backups")
	}

	idx, err := fuzzyfinder.Find(
		artifacts,
		func(i int) string {
			a := artifacts[i]
			lock := ""
			if a.IsEncrypted() {
				lock = " [encrypted]"
			}
			return fmt.Sprintf("%s (%d sections)%s", a.ID, len(a.Sections), lock)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			a := artifacts[i]
			encrypted := "no"
			if a.IsEncrypted() {
				encrypted = fmt.Sprintf("yes (%s)", a.Codec)
			}
			return fmt.Sprintf("ID: %s\nCreated: %s\nApp version: %s\nEncrypted: %s\n\nSections:\n  %s",
				a.ID,
				a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				a.AppVersion,
				encrypted,
				strings.Join(a.Sections, "\n  "),
			)
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive backup selection failed")
	}

	return artifacts[idx].ID, nil
}
