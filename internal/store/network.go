package store

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/skiffhq/skiff/pkg/fileutil"
)

// On-disk names of the network stores.
const (
	networkHistoryFile = "network_history.json"
	recentIPsFile      = "recent_ips.json"
)

// ScanRecord is one entry of network-discovery history: a subnet that was
// scanned for services and what turned up.
type ScanRecord struct {
	Subnet     string    `json:"subnet"`
	ScannedAt  time.Time `json:"scannedAt"`
	HostsFound int       `json:"hostsFound"`
}

// NetworkHistoryStore persists network scan history as JSON.
type NetworkHistoryStore struct {
	path string
}

// NewNetworkHistoryStore creates a network history store rooted at dir.
func NewNetworkHistoryStore(dir string) *NetworkHistoryStore {
	return &NetworkHistoryStore{path: filepath.Join(dir, networkHistoryFile)}
}

// Load reads the scan history. A missing file is an empty list.
func (s *NetworkHistoryStore) Load() ([]ScanRecord, error) {
	var records []ScanRecord
	if err := readJSONFile(s.path, &records); err != nil {
		return nil, errors.Wrap(err, "reading network history")
	}
	return records, nil
}

// Save writes the scan history atomically.
func (s *NetworkHistoryStore) Save(records []ScanRecord) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteJSON(s.path, records)
}

// Snapshot implements the backup source accessor.
func (s *NetworkHistoryStore) Snapshot() (any, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []ScanRecord{}
	}
	return records, nil
}

// Apply implements the backup source accessor.
func (s *NetworkHistoryStore) Apply(snapshot json.RawMessage) error {
	var records []ScanRecord
	if err := json.Unmarshal(snapshot, &records); err != nil {
		return errors.Wrap(err, "decoding network history snapshot")
	}
	return s.Save(records)
}

// RecentIP is one recently used service address, kept so connection forms
// can offer it as a suggestion.
type RecentIP struct {
	Address    string    `json:"address"`
	LastUsedAt time.Time `json:"lastUsedAt"`
}

// RecentIPStore persists recently used IP addresses as JSON.
type RecentIPStore struct {
	path string
}

// NewRecentIPStore creates a recent-IP store rooted at dir.
func NewRecentIPStore(dir string) *RecentIPStore {
	return &RecentIPStore{path: filepath.Join(dir, recentIPsFile)}
}

// Load reads the recent addresses. A missing file is an empty list.
func (s *RecentIPStore) Load() ([]RecentIP, error) {
	var ips []RecentIP
	if err := readJSONFile(s.path, &ips); err != nil {
		return nil, errors.Wrap(err, "reading recent IPs")
	}
	return ips, nil
}

// Save writes the recent addresses atomically.
func (s *RecentIPStore) Save(ips []RecentIP) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteJSON(s.path, ips)
}

// Snapshot implements the backup source accessor.
func (s *RecentIPStore) Snapshot() (any, error) {
	ips, err := s.Load()
	if err != nil {
		return nil, err
	}
	if ips == nil {
		ips = []RecentIP{}
	}
	return ips, nil
}

// Apply implements the backup source accessor.
func (s *RecentIPStore) Apply(snapshot json.RawMessage) error {
	var ips []RecentIP
	if err := json.Unmarshal(snapshot, &ips); err != nil {
		return errors.Wrap(err, "decoding recent IPs snapshot")
	}
	return s.Save(ips)
}
