package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/skiffhq/skiff/pkg/fileutil"
)

// settingsFile is the on-disk name of the settings store.
const settingsFile = "settings.yaml"

// Settings is the app-wide settings snapshot.
type Settings struct {
	Theme             string `json:"theme" yaml:"theme"`
	Locale            string `json:"locale" yaml:"locale"`
	Use24HourTime     bool   `json:"use24HourTime" yaml:"use_24_hour_time"`
	EnableInAppAlerts bool   `json:"enableInAppAlerts" yaml:"enable_in_app_alerts"`
	DefaultPage       string `json:"defaultPage" yaml:"default_page"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		Theme:             "system",
		Locale:            "en",
		EnableInAppAlerts: true,
		DefaultPage:       "dashboard",
	}
}

// SettingsStore persists app settings as YAML.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store rooted at dir.
func NewSettingsStore(dir string) *SettingsStore {
	return &SettingsStore{path: filepath.Join(dir, settingsFile)}
}

// Load reads the current settings, or the defaults if no file exists.
func (s *SettingsStore) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, errors.Wrap(err, "reading settings")
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.Wrap(err, "parsing settings")
	}
	return settings, nil
}

// Save writes settings atomically.
func (s *SettingsStore) Save(settings Settings) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteYAML(s.path, settings)
}

// Snapshot implements the backup source accessor.
func (s *SettingsStore) Snapshot() (any, error) {
	return s.Load()
}

// Apply implements the backup source accessor.
func (s *SettingsStore) Apply(snapshot json.RawMessage) error {
	var settings Settings
	if err := json.Unmarshal(snapshot, &settings); err != nil {
		return errors.Wrap(err, "decoding settings snapshot")
	}
	return s.Save(settings)
}
