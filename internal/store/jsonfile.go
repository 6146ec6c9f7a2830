package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// readJSONFile decodes path into v. A missing file leaves v untouched so
// stores can fall back to their zero state.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// ensureParent creates the store directory before a first write. Store
// directories are private since several stores hold credentials.
func ensureParent(path string) error {
	return errors.Wrap(os.MkdirAll(filepath.Dir(path), 0o700), "creating store directory")
}
