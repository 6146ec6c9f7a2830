// Package paths resolves the directories skiff reads and writes.
//
// All locations follow the XDG base directory specification via adrg/xdg,
// with the SKIFF_CONFIG_DIR and SKIFF_DATA_DIR environment variables as
// overrides for testing and portable installs.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppDirName is the directory name used under the XDG base directories.
const AppDirName = "skiff"

// Environment variable overrides.
const (
	// EnvConfigDir overrides the config directory when set.
	EnvConfigDir = "SKIFF_CONFIG_DIR"

	// EnvDataDir overrides the data directory when set.
	EnvDataDir = "SKIFF_DATA_DIR"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the skiff config directory.
// Honors the SKIFF_CONFIG_DIR environment variable.
// Default: <ConfigHome>/skiff/
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppDirName)
}

// DataDir returns the skiff data directory.
// Honors the SKIFF_DATA_DIR environment variable.
// Default: <DataHome>/skiff/
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return filepath.Join(DataHome(), AppDirName)
}

// StoresDir returns the directory holding the section store files
// (settings.yaml, services.toml, and the JSON stores).
// Returns: <ConfigDir>/stores/
func StoresDir() string {
	return filepath.Join(ConfigDir(), "stores")
}

// BackupsDir returns the directory where backup artifacts are written.
// Returns: <DataDir>/backups/
func BackupsDir() string {
	return filepath.Join(DataDir(), "backups")
}
