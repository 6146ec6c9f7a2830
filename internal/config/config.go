// Package config provides configuration management for skiff using Viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/backup/codec"
	"github.com/skiffhq/skiff/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "skiff"

// Config represents the top-level configuration structure.
type Config struct {
	Version        int          `mapstructure:"version" yaml:"version"`
	BackupDir      string       `mapstructure:"backup_dir" yaml:"backup_dir"`
	RetentionCount int          `mapstructure:"retention_count" yaml:"retention_count"`
	Export         ExportConfig `mapstructure:"export" yaml:"export"`
}

// ExportConfig holds defaults applied to backup exports when the user does
// not override them on the command line.
type ExportConfig struct {
	EncryptSensitive bool     `mapstructure:"encrypt_sensitive" yaml:"encrypt_sensitive"`
	Sections         []string `mapstructure:"sections" yaml:"sections"`
	Codec            string   `mapstructure:"codec" yaml:"codec"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("SKIFF")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("retention_count", backup.DefaultRetentionCount)
	viper.SetDefault("export.encrypt_sensitive", true)
	viper.SetDefault("export.sections", defaultExportSections())
	viper.SetDefault("export.codec", string(codec.VersionAEAD))
}

// defaultExportSections returns the section keys enabled by default in the
// selection catalog.
func defaultExportSections() []string {
	var sections []string
	catalog := backup.SelectionCatalog()
	for _, key := range backup.SectionOrder() {
		if catalog[key].Enabled {
			sections = append(sections, key)
		}
	}
	return sections
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// ExportOptions converts the configured export defaults into a starting
// option set for the backup manager.
func (c *Config) ExportOptions() backup.ExportOptions {
	opts := backup.ExportOptions{EncryptSensitive: c.Export.EncryptSensitive}
	for _, section := range c.Export.Sections {
		opts.SetInclude(section, true)
	}
	return opts
}
