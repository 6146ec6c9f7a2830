package doctor

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/skiffhq/skiff/internal/backup"
	"github.com/skiffhq/skiff/internal/config"
	"github.com/skiffhq/skiff/internal/logging"
)

// ConfigCheck validates the loaded configuration file.
type ConfigCheck struct {
	cfg *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check for the given loaded configuration.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config-valid"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the configuration validation check.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		result.Status = SeverityPass
		result.Message = "configuration is valid"
		return result
	}

	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}

	result.Status = SeverityError
	result.Message = fmt.Sprintf("configuration has %d problem(s)", len(errs))
	result.Details = map[string]any{"problems": msgs}
	result.FixHint = "Edit the file with: skiff config edit"
	return result
}

// storeFiles maps each known store file to its format.
var storeFiles = map[string]string{
	"settings.yaml":        "yaml",
	"services.toml":        "toml",
	"credentials.json":     "json",
	"mdb_credentials.json": "json",
	"network_history.json": "json",
	"recent_ips.json":      "json",
	"download_config.json": "json",
	"view_state.json":      "json",
}

// StoreSyntaxCheck parses every store file and reports syntax errors.
// Missing files are fine; a store that has never been written is valid
// zero state.
type StoreSyntaxCheck struct {
	dir string
}

var _ Check = (*StoreSyntaxCheck)(nil)

// NewStoreSyntaxCheck creates a syntax check over the given stores directory.
func NewStoreSyntaxCheck(dir string) *StoreSyntaxCheck {
	return &StoreSyntaxCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *StoreSyntaxCheck) Name() string {
	return "store-syntax"
}

// Category returns the grouping for this check.
func (c *StoreSyntaxCheck) Category() string {
	return "stores"
}

// Run executes the store syntax check.
func (c *StoreSyntaxCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	var problems []string
	checked := 0

	for name, format := range storeFiles {
		path := filepath.Join(c.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		checked++

		if err := parseAs(data, format); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
		}
	}

	if len(problems) > 0 {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d store file(s) failed to parse", len(problems))
		result.Details = map[string]any{"problems": problems}
		result.FixHint = "Restore the affected stores from a backup: skiff backup restore"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d store file(s) parsed cleanly", checked)
	return result
}

// parseAs checks that data parses in the named format.
func parseAs(data []byte, format string) error {
	var v any
	switch format {
	case "yaml":
		return yaml.Unmarshal(data, &v)
	case "toml":
		return toml.Unmarshal(data, &v)
	default:
		return json.Unmarshal(data, &v)
	}
}

// credentialFiles lists store files that must stay private.
var credentialFiles = []string{
	"services.toml",
	"credentials.json",
	"mdb_credentials.json",
}

// pathIssue describes one permission problem found on disk.
type pathIssue struct {
	Path       string
	Type       string // "file" or "directory"
	Current    os.FileMode
	Target     os.FileMode
	Fixable    bool
	Descriptor string
}

// PermissionCheck verifies that credential files and state directories are
// not readable by other users.
type PermissionCheck struct {
	PermissionFixer
	storesDir string
}

var _ Check = (*PermissionCheck)(nil)
var _ Fixer = (*PermissionCheck)(nil)

// NewPermissionCheck creates a permission check over the given stores directory.
func NewPermissionCheck(storesDir string) *PermissionCheck {
	return &PermissionCheck{storesDir: storesDir}
}

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string {
	return "store-permissions"
}

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string {
	return "stores"
}

// Run executes the permission check.
func (c *PermissionCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	var issues []pathIssue

	if info, err := os.Stat(c.storesDir); err == nil && info.IsDir() {
		if perm := info.Mode().Perm(); perm&0o077 != 0 {
			issues = append(issues, pathIssue{
				Path:       c.storesDir,
				Type:       "directory",
				Current:    perm,
				Target:     0o700,
				Fixable:    true,
				Descriptor: "stores directory is accessible by other users",
			})
		}
	}

	for _, name := range credentialFiles {
		path := filepath.Join(c.storesDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if perm := info.Mode().Perm(); perm&0o077 != 0 {
			issues = append(issues, pathIssue{
				Path:       path,
				Type:       "file",
				Current:    perm,
				Target:     0o600,
				Fixable:    true,
				Descriptor: name + " is readable by other users",
			})
		}
	}

	c.setIssues(issues)

	if len(issues) == 0 {
		result.Status = SeverityPass
		result.Message = "credential files and directories are private"
		return result
	}

	descriptions := make([]string, len(issues))
	for i, issue := range issues {
		descriptions[i] = fmt.Sprintf("%s (%04o)", issue.Descriptor, issue.Current)
	}

	result.Status = SeverityWarning
	result.Message = fmt.Sprintf("%d path(s) have loose permissions", len(issues))
	result.Details = map[string]any{"issues": descriptions}
	result.Fixable = true
	result.FixHint = "Run: skiff doctor --fix"
	return result
}

// ServicesCheck validates configured service connections: URLs must parse,
// and services other than download clients should have API keys set.
// URLs shown in details have embedded credentials masked.
type ServicesCheck struct {
	load func() ([]serviceEntry, error)
}

// serviceEntry is the slice of service config the check needs.
type serviceEntry struct {
	ID      string
	Type    string
	URL     string
	APIKey  string
	Enabled bool
}

var _ Check = (*ServicesCheck)(nil)

// NewServicesCheck creates a service connection check over the given stores
// directory.
func NewServicesCheck(storesDir string) *ServicesCheck {
	return &ServicesCheck{load: func() ([]serviceEntry, error) {
		return loadServiceEntries(filepath.Join(storesDir, "services.toml"))
	}}
}

// loadServiceEntries reads the service list without importing the store
// package (doctor is imported by commands that also build stores, and the
// check only needs a few fields).
func loadServiceEntries(path string) ([]serviceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var file struct {
		Services []struct {
			ID      string `toml:"id"`
			Type    string `toml:"type"`
			URL     string `toml:"url"`
			APIKey  string `toml:"api_key"`
			Enabled bool   `toml:"enabled"`
		} `toml:"services"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	entries := make([]serviceEntry, len(file.Services))
	for i, s := range file.Services {
		entries[i] = serviceEntry{ID: s.ID, Type: s.Type, URL: s.URL, APIKey: s.APIKey, Enabled: s.Enabled}
	}
	return entries, nil
}

// Name returns the unique identifier for this check.
func (c *ServicesCheck) Name() string {
	return "service-connections"
}

// Category returns the grouping for this check.
func (c *ServicesCheck) Category() string {
	return "services"
}

// apiKeyServices are service types that require an API key to talk to.
var apiKeyServices = map[string]bool{
	"sonarr":   true,
	"radarr":   true,
	"lidarr":   true,
	"tautulli": true,
}

// Run executes the service connection check.
func (c *ServicesCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	entries, err := c.load()
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("reading services: %v", err)
		return result
	}

	if len(entries) == 0 {
		result.Status = SeverityInfo
		result.Message = "no services configured"
		return result
	}

	var problems []string
	for _, e := range entries {
		if !e.Enabled {
			continue
		}
		masked := logging.MaskURL(e.URL)
		u, err := url.Parse(e.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("%s: invalid URL %q", e.ID, masked))
			continue
		}
		if u.User != nil {
			problems = append(problems, fmt.Sprintf("%s: URL embeds credentials (%s)", e.ID, masked))
		}
		if apiKeyServices[strings.ToLower(e.Type)] && e.APIKey == "" {
			problems = append(problems, fmt.Sprintf("%s: missing API key", e.ID))
		}
	}

	if len(problems) > 0 {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d service(s) have connection problems", len(problems))
		result.Details = map[string]any{"problems": problems}
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d service(s) configured", len(entries))
	return result
}

// BackupIntegrityCheck reads every backup document and reports files that
// are not valid backups or whose plaintext payload fails its recorded
// checksum. Encrypted backups do not need a password; only their headers
// are checked since the codec covers payload integrity.
type BackupIntegrityCheck struct {
	dir string
}

var _ Check = (*BackupIntegrityCheck)(nil)

// NewBackupIntegrityCheck creates an integrity check over the given backup
// directory.
func NewBackupIntegrityCheck(dir string) *BackupIntegrityCheck {
	return &BackupIntegrityCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *BackupIntegrityCheck) Name() string {
	return "backup-integrity"
}

// Category returns the grouping for this check.
func (c *BackupIntegrityCheck) Category() string {
	return "backups"
}

// Run executes the backup integrity check.
func (c *BackupIntegrityCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			result.Status = SeverityInfo
			result.Message = "no backups stored yet"
			return result
		}
		result.Status = SeverityError
		result.Message = fmt.Sprintf("reading backup directory: %v", err)
		return result
	}

	var problems []string
	checked := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backup.ArtifactExt) {
			continue
		}
		checked++

		data, err := os.ReadFile(filepath.Join(c.dir, entry.Name()))
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}

		var artifact backup.Artifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			problems = append(problems, fmt.Sprintf("%s: not valid JSON", entry.Name()))
			continue
		}
		if artifact.Format != backup.FormatName {
			problems = append(problems, fmt.Sprintf("%s: unrecognized format %q", entry.Name(), artifact.Format))
			continue
		}
		if err := artifact.VerifyChecksum(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: payload does not match its checksum", entry.Name()))
		}
	}

	if len(problems) > 0 {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d of %d backup(s) are damaged", len(problems), checked)
		result.Details = map[string]any{"problems": problems}
		result.FixHint = "Remove damaged files, or re-export: skiff backup export"
		return result
	}

	if checked == 0 {
		result.Status = SeverityInfo
		result.Message = "no backups stored yet"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d backup(s) readable", checked)
	return result
}
