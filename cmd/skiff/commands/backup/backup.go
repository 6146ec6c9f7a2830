// Package backup provides CLI commands for exporting and restoring backups.
package backup

import (
	"github.com/spf13/cobra"

	"github.com/skiffhq/skiff/cmd/skiff/commands/flags"
	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/backup/codec"
	"github.com/skiffhq/skiff/internal/paths"
	"github.com/skiffhq/skiff/internal/store"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage configuration backups",
	Long: `Export and restore skiff's local state as portable backup documents.

A backup bundles the sections you select (app settings, service
connections, credentials, network history, and so on) into a single
JSON document, optionally encrypted with a password. The document
format is shared with the skiff mobile apps, so backups move between
devices.

Backups are stored in ~/.local/share/skiff/backups/ unless backup_dir
is set in the configuration.`,
	Example: `  # Export with default sections
  skiff backup export

  # Export without encryption
  skiff backup export --encrypt=false

  # Restore interactively
  skiff backup restore

  # List stored backups
  skiff backup list

  # Remove old backups, keeping the 3 most recent
  skiff backup prune --keep 3

  See Also:
    skiff backup export   - Export a new backup
    skiff backup restore  - Restore from a backup
    skiff backup list     - List stored backups
    skiff backup sections - Show what a backup can contain
    skiff backup prune    - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// newManager builds a backup manager from the loaded configuration.
func newManager() (*backup.Manager, error) {
	cfg := flags.GetConfig()

	opts := []backup.Option{
		backup.WithSources(store.Registry(paths.StoresDir())),
		backup.WithAppVersion(flags.AppVersion()),
	}
	if cfg.BackupDir != "" {
		opts = append(opts, backup.WithBackupDir(cfg.BackupDir))
	}
	if cfg.RetentionCount > 0 {
		opts = append(opts, backup.WithRetentionCount(cfg.RetentionCount))
	}
	if cfg.Export.Codec != "" {
		c, err := codec.New(codec.Version(cfg.Export.Codec))
		if err != nil {
			return nil, err
		}
		opts = append(opts, backup.WithCodec(c))
	}

	return backup.NewManager(opts...), nil
}
