// Package commands implements the CLI commands for skiff.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skiffhq/skiff/cmd/skiff/commands/flags"
	"github.com/skiffhq/skiff/internal/config"
	"github.com/skiffhq/skiff/internal/errors"
	"github.com/skiffhq/skiff/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// cfgFile holds the value of the --config flag.
var cfgFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// cfg holds the loaded configuration, available to subcommands via GetConfig.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/skiff/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	// Add version flag
	flags.SetAppVersion(version)
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("skiff version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	cfg, configLoadErr = config.Load(cfgFile)
	if cfg != nil {
		flags.SetConfig(cfg)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skiff",
	Short: "Companion CLI for self-hosted media service management",
	Long: `skiff is a companion CLI for managing self-hosted media services
such as Sonarr, Radarr, Lidarr, SABnzbd, NZBGet, and Tautulli.

It keeps service connection details, credentials, and preferences in
simple local files, and can export all of it into a single portable
backup document with optional password encryption. The same document
format is understood by the skiff mobile apps, so a backup made on one
device restores cleanly on another.`,
	Example: `  # Export a backup of everything enabled by default
  skiff backup export

  # Restore from a backup, picking one interactively
  skiff backup restore

  # See what a backup would contain
  skiff backup sections

  See Also: skiff backup, skiff config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SKIFF_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load failures before any subcommand runs.
func checkConfig(cmd *cobra.Command) error {
	// Skip for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
