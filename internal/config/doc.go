// Package config provides configuration management for the skiff CLI.
//
// This package handles loading and validating the skiff tool's own
// configuration file. It is distinct from the per-service state files
// which are managed by the store package.
//
// # Configuration File
//
// The default configuration file location is ~/.config/skiff/config.yaml.
// The configuration file uses YAML format with the following structure:
//
//	version: 1
//	backup_dir: /custom/backups   # optional
//	retention_count: 10
//	export:
//	  encrypt_sensitive: true
//	  codec: v2
//	  sections:
//	    - settings
//	    - serviceConfigs
//
// # Loading Configuration
//
// Call [Init] once at startup to register defaults and search paths, then
// [Load] to read the file:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// Passing a non-empty path to [Load] reads that exact file and fails if it
// does not exist. With an empty path the default locations are searched and
// a missing file falls back to defaults.
//
// # Validation
//
// Use [Validate] to check a loaded configuration:
//
//	errs := config.Validate(cfg)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
//
// All values can also be supplied through SKIFF_* environment variables.
package config
