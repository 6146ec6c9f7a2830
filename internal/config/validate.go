package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/backup/codec"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidSection indicates an unrecognized backup section key.
	ErrInvalidSection = errors.New("invalid backup section")

	// ErrInvalidCodec indicates an unrecognized backup codec version.
	ErrInvalidCodec = errors.New("invalid backup codec")

	// ErrInvalidRetention indicates a negative retention count.
	ErrInvalidRetention = errors.New("retention_count must be >= 0")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	// Version must be >= 1
	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	// Retention of zero means "keep everything"
	if cfg.RetentionCount < 0 {
		errs = append(errs, ErrInvalidRetention)
	}

	// Validate export section keys
	for _, section := range cfg.Export.Sections {
		if !backup.ValidSection(section) {
			errs = append(errs, &SectionError{
				Section: section,
				Err:     ErrInvalidSection,
			})
		}
	}

	// Validate the codec version if set
	if cfg.Export.Codec != "" {
		switch codec.Version(cfg.Export.Codec) {
		case codec.VersionLegacy, codec.VersionAEAD:
		default:
			errs = append(errs, &SectionError{
				Section: cfg.Export.Codec,
				Err:     ErrInvalidCodec,
			})
		}
	}

	// Validate directory paths if set
	if cfg.BackupDir != "" {
		if err := validatePath(cfg.BackupDir); err != nil {
			errs = append(errs, &PathError{
				Field: "backup_dir",
				Path:  cfg.BackupDir,
				Err:   err,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// SectionError represents an error for a specific backup section value.
type SectionError struct {
	Section string
	Err     error
}

func (e *SectionError) Error() string {
	return e.Err.Error() + ": " + e.Section
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
