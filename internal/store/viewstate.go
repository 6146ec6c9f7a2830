package store

import (
	"encoding/json"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/skiffhq/skiff/pkg/fileutil"
)

// viewStateFile is the on-disk name of the services view-state store.
const viewStateFile = "view_state.json"

// ViewStateStore persists per-screen UI state (sort orders, collapsed
// groups, last selected tabs) keyed by screen name. The shape of each
// screen's state belongs to the screen, so values stay raw JSON here.
type ViewStateStore struct {
	path string
}

// NewViewStateStore creates a view-state store rooted at dir.
func NewViewStateStore(dir string) *ViewStateStore {
	return &ViewStateStore{path: filepath.Join(dir, viewStateFile)}
}

// Load reads all screen states. A missing file is an empty map.
func (s *ViewStateStore) Load() (map[string]json.RawMessage, error) {
	state := map[string]json.RawMessage{}
	if err := readJSONFile(s.path, &state); err != nil {
		return nil, errors.Wrap(err, "reading view state")
	}
	return state, nil
}

// Save writes all screen states atomically.
func (s *ViewStateStore) Save(state map[string]json.RawMessage) error {
	if err := ensureParent(s.path); err != nil {
		return err
	}
	return fileutil.AtomicWriteJSON(s.path, state)
}

// Snapshot implements the backup source accessor.
func (s *ViewStateStore) Snapshot() (any, error) {
	return s.Load()
}

// Apply implements the backup source accessor.
func (s *ViewStateStore) Apply(snapshot json.RawMessage) error {
	var state map[string]json.RawMessage
	if err := json.Unmarshal(snapshot, &state); err != nil {
		return errors.Wrap(err, "decoding view state snapshot")
	}
	return s.Save(state)
}
