package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/skiffhq/skiff/cmd/skiff/commands/flags"
	"github.com/skiffhq/skiff/internal/config"
	"github.com/skiffhq/skiff/internal/editor"
	"github.com/skiffhq/skiff/internal/paths"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage skiff configuration",
	Long: `Manage skiff configuration stored in ~/.config/skiff/config.yaml.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  skiff config

  # Get a specific value
  skiff config get retention_count

  # Check the configuration file for problems
  skiff config validate

See Also: skiff backup`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys. Array values are printed one per line.`,
	Example: `  # Get the retention count
  skiff config get retention_count

  # Get the default export sections
  skiff config get export.sections

See Also: skiff config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  # List all configuration
  skiff config list

See Also: skiff config get, skiff config validate`,
	RunE: runConfigList,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for problems",
	Long: `Validate the loaded configuration and report every problem found.

Exits non-zero when the configuration is invalid.`,
	Example: `  # Validate the default config file
  skiff config validate

  # Validate a specific file
  skiff config validate --config /path/to/config.yaml

See Also: skiff config list`,
	RunE: runConfigValidate,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR environment variable, or falls back to vi.`,
	Example: `  # Open config in default editor
  skiff config edit

  # Open with specific editor
  EDITOR=nano skiff config edit

See Also: skiff config list`,
	RunE: runConfigEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration and data locations",
	Long:  `Print the directories skiff reads configuration and writes data to.`,
	RunE:  runConfigPath,
}

func runConfigGet(_ *cobra.Command, args []string) error {
	key := args[0]

	// Check if value exists
	if !viper.IsSet(key) {
		fmt.Println("not set")
		return nil
	}

	// Get the value and determine its type
	val := viper.Get(key)

	switch v := val.(type) {
	case []any:
		// Array values - print one per line
		for _, item := range v {
			fmt.Println(item)
		}
	case []string:
		// String slice - print one per line
		for _, item := range v {
			fmt.Println(item)
		}
	default:
		// Scalar values
		fmt.Println(viper.GetString(key))
	}

	return nil
}

func runConfigList(_ *cobra.Command, _ []string) error {
	cfg := flags.GetConfig()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg := flags.GetConfig()

	errs := config.Validate(cfg)
	if len(errs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Configuration is valid"))
		return nil
	}

	for _, e := range errs {
		fmt.Fprintln(cmd.OutOrStdout(), color.RedString("✗ %v", e))
	}
	return errors.Newf("configuration has %d problem(s)", len(errs))
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := filepath.Join(paths.ConfigDir(), "config.yaml")

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return errors.Newf("config file not found at %s", configPath)
	}

	return editor.Open(configPath)
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "config: %s\n", paths.ConfigDir())
	fmt.Fprintf(w, "stores: %s\n", paths.StoresDir())

	backupDir := flags.GetConfig().BackupDir
	if backupDir == "" {
		backupDir = paths.BackupsDir()
	}
	fmt.Fprintf(w, "backups: %s\n", backupDir)
	return nil
}
