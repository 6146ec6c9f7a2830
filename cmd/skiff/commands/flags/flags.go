// Package flags provides shared state accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (backup, config, etc.).
package flags

import "github.com/skiffhq/skiff/internal/config"

// cfg holds the configuration loaded by the root command.
var cfg *config.Config

// appVersion holds the version string injected by the root command.
var appVersion = "dev"

// GetConfig returns the loaded configuration. Never nil; before the root
// command has loaded anything it returns an empty config.
func GetConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// SetConfig stores the loaded configuration for subcommands.
func SetConfig(c *config.Config) {
	cfg = c
}

// AppVersion returns the CLI version string.
func AppVersion() string {
	return appVersion
}

// SetAppVersion stores the CLI version string for subcommands.
func SetAppVersion(v string) {
	appVersion = v
}
