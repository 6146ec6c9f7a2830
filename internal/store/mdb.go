package store

import (
	"encoding/json"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/skiffhq/skiff/pkg/fileutil"
)

// mdbCredentialsFile is the on-disk name of the media-database credential store.
const mdbCredentialsFile = "mdb_credentials.json"

// Media-database provider identifiers.
const (
	ProviderTMDB  = "tmdb"
	ProviderTVDB  = "tvdb"
	ProviderTrakt = "trakt"
)

// MDBCredentialStore persists API keys for third-party media databases
// (metadata lookups, artwork, episode data), keyed by provider.
type MDBCredentialStore struct {
	path string
}

// NewMDBCredentialStore creates an mdb credential store rooted at dir.
func NewMDBCredentialStore(dir string) *MDBCredentialStore {
	return &MDBCredentialStore{path: filepath.Join(dir, mdbCredentialsFile)}
}

// Load reads all provider API keys. A missing file is an empty map.
func (s *MDBCredentialStore) Load() (map[string]string, error) {
	keys := map[string]string{}
	if err := readJSONFile(s.path, &keys); err != nil {
		return nil, errors.Wrap(err, "reading media-database credentials")
	}
	return keys, nil
}

// Save writes the key map atomically with private permissions.
func (s *MDBCredentialStore) Save(keys map[string]string) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteJSONWithPerm(s.path, keys, 0o600)
}

// Snapshot implements the backup source accessor.
func (s *MDBCredentialStore) Snapshot() (any, error) {
	return s.Load()
}

// Apply implements the backup source accessor.
func (s *MDBCredentialStore) Apply(snapshot json.RawMessage) error {
	var keys map[string]string
	if err := json.Unmarshal(snapshot, &keys); err != nil {
		return errors.Wrap(err, "decoding media-database credentials snapshot")
	}
	return s.Save(keys)
}
