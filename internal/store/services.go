package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/skiffhq/skiff/pkg/fileutil"
)

// On-disk names of the service stores.
const (
	servicesFile    = "services.toml"
	credentialsFile = "credentials.json"
)

// Service type identifiers for supported self-hosted services.
const (
	ServiceSonarr   = "sonarr"
	ServiceRadarr   = "radarr"
	ServiceLidarr   = "lidarr"
	ServiceSABnzbd  = "sabnzbd"
	ServiceNZBGet   = "nzbget"
	ServiceTautulli = "tautulli"
)

// ServiceConfig is one configured service connection profile. The API key
// rides along with the profile, which is why the serviceConfigs backup
// section is flagged sensitive.
type ServiceConfig struct {
	ID      string `json:"id" toml:"id"`
	Name    string `json:"name" toml:"name"`
	Type    string `json:"type" toml:"type"`
	URL     string `json:"url" toml:"url"`
	APIKey  string `json:"apiKey" toml:"api_key"`
	Enabled bool   `json:"enabled" toml:"enabled"`
}

// serviceFile is the TOML document shape of services.toml.
type serviceFile struct {
	Services []ServiceConfig `json:"services" toml:"services"`
}

// ServiceStore persists service connection profiles as TOML.
type ServiceStore struct {
	path string
}

// NewServiceStore creates a service store rooted at dir.
func NewServiceStore(dir string) *ServiceStore {
	return &ServiceStore{path: filepath.Join(dir, servicesFile)}
}

// Load reads all configured services. A missing file is an empty list.
func (s *ServiceStore) Load() ([]ServiceConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading services")
	}

	var doc serviceFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing services")
	}
	return doc.Services, nil
}

// Save writes the full service list atomically with private permissions.
func (s *ServiceStore) Save(services []ServiceConfig) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteTOMLWithPerm(s.path, serviceFile{Services: services}, 0o600)
}

// Snapshot implements the backup source accessor. The snapshot is the
// bare list; the TOML wrapper table is a storage detail.
func (s *ServiceStore) Snapshot() (any, error) {
	services, err := s.Load()
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []ServiceConfig{}
	}
	return services, nil
}

// Apply implements the backup source accessor.
func (s *ServiceStore) Apply(snapshot json.RawMessage) error {
	var services []ServiceConfig
	if err := json.Unmarshal(snapshot, &services); err != nil {
		return errors.Wrap(err, "decoding services snapshot")
	}
	return s.Save(services)
}

// Credential is a username/password pair for a service that uses basic
// authentication in front of its API.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialStore persists per-service credentials as JSON, keyed by
// service ID.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a credential store rooted at dir.
func NewCredentialStore(dir string) *CredentialStore {
	return &CredentialStore{path: filepath.Join(dir, credentialsFile)}
}

// Load reads all stored credentials. A missing file is an empty map.
func (s *CredentialStore) Load() (map[string]Credential, error) {
	creds := map[string]Credential{}
	if err := readJSONFile(s.path, &creds); err != nil {
		return nil, errors.Wrap(err, "reading credentials")
	}
	return creds, nil
}

// Save writes the credential map atomically with private permissions.
func (s *CredentialStore) Save(creds map[string]Credential) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteJSONWithPerm(s.path, creds, 0o600)
}

// Snapshot implements the backup source accessor.
func (s *CredentialStore) Snapshot() (any, error) {
	return s.Load()
}

// Apply implements the backup source accessor.
func (s *CredentialStore) Apply(snapshot json.RawMessage) error {
	var creds map[string]Credential
	if err := json.Unmarshal(snapshot, &creds); err != nil {
		return errors.Wrap(err, "decoding credentials snapshot")
	}
	return s.Save(creds)
}
