package store

import (
	"encoding/json"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/skiffhq/skiff/pkg/fileutil"
)

// downloadConfigFile is the on-disk name of the download configuration store.
const downloadConfigFile = "download_config.json"

// DownloadConfig holds download client preferences shared across services.
type DownloadConfig struct {
	MaxConcurrent  int    `json:"maxConcurrent"`
	SpeedLimitKBps int    `json:"speedLimitKBps"`
	Directory      string `json:"directory"`
	PauseOnBattery bool   `json:"pauseOnBattery"`
}

// DefaultDownloadConfig returns the configuration used before the user has
// changed anything.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		MaxConcurrent:  3,
		SpeedLimitKBps: 0,
		Directory:      "",
		PauseOnBattery: false,
	}
}

// DownloadConfigStore persists download preferences as JSON.
type DownloadConfigStore struct {
	path string
}

// NewDownloadConfigStore creates a download config store rooted at dir.
func NewDownloadConfigStore(dir string) *DownloadConfigStore {
	return &DownloadConfigStore{path: filepath.Join(dir, downloadConfigFile)}
}

// Load reads the download configuration, falling back to defaults when the
// file does not exist.
func (s *DownloadConfigStore) Load() (DownloadConfig, error) {
	cfg := DefaultDownloadConfig()
	if err := readJSONFile(s.path, &cfg); err != nil {
		return DownloadConfig{}, errors.Wrap(err, "reading download config")
	}
	return cfg, nil
}

// Save writes the download configuration atomically.
func (s *DownloadConfigStore) Save(cfg DownloadConfig) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteJSON(s.path, cfg)
}

// Snapshot implements the backup source accessor.
func (s *DownloadConfigStore) Snapshot() (any, error) {
	return s.Load()
}

// Apply implements the backup source accessor.
func (s *DownloadConfigStore) Apply(snapshot json.RawMessage) error {
	var cfg DownloadConfig
	if err := json.Unmarshal(snapshot, &cfg); err != nil {
		return errors.Wrap(err, "decoding download config snapshot")
	}
	return s.Save(cfg)
}
