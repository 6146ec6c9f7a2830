package backup

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Source reads and applies the snapshot for one backup section. Stores
// expose these accessors to the assembler; the assembler never touches
// store files directly.
type Source interface {
	// Snapshot returns the section's current state as a JSON-serializable
	// value.
	Snapshot() (any, error)

	// Apply replaces the section's state with the given snapshot.
	Apply(snapshot json.RawMessage) error
}

// Sources maps section keys to their stores.
type Sources map[string]Source

// Payload is the assembled tree of selected application data. Unselected
// sections are nil and omitted from the serialized document entirely, not
// present with a null value. Field order is the stable document order.
type Payload struct {
	Settings           *json.RawMessage `json:"settings,omitempty"`
	ServiceConfigs     *json.RawMessage `json:"serviceConfigs,omitempty"`
	ServiceCredentials *json.RawMessage `json:"serviceCredentials,omitempty"`
	MDBCredentials     *json.RawMessage `json:"mdbCredentials,omitempty"`
	NetworkHistory     *json.RawMessage `json:"networkHistory,omitempty"`
	RecentIPs          *json.RawMessage `json:"recentIPs,omitempty"`
	DownloadConfig     *json.RawMessage `json:"downloadConfig,omitempty"`
	ServicesViewState  *json.RawMessage `json:"servicesViewState,omitempty"`
}

// section returns a pointer to the field for the given section key.
func (p *Payload) section(key string) **json.RawMessage {
	switch key {
	case SectionSettings:
		return &p.Settings
	case SectionServiceConfigs:
		return &p.ServiceConfigs
	case SectionServiceCredentials:
		return &p.ServiceCredentials
	case SectionMDBCredentials:
		return &p.MDBCredentials
	case SectionNetworkHistory:
		return &p.NetworkHistory
	case SectionRecentIPs:
		return &p.RecentIPs
	case SectionDownloadConfig:
		return &p.DownloadConfig
	case SectionServicesViewState:
		return &p.ServicesViewState
	default:
		return nil
	}
}

// Section returns the raw snapshot for a section, or nil if absent.
func (p *Payload) Section(key string) json.RawMessage {
	field := p.section(key)
	if field == nil || *field == nil {
		return nil
	}
	return **field
}

// Sections returns the keys present in the payload, in document order.
func (p *Payload) Sections() []string {
	var out []string
	for _, key := range sectionOrder {
		if p.Section(key) != nil {
			out = append(out, key)
		}
	}
	return out
}

// assemblePayload builds a Payload containing only the selected sections,
// each populated from its store's current snapshot. A selected section
// without a registered store is an error: silently dropping it would make
// the export lie about its contents.
func assemblePayload(opts ExportOptions, sources Sources) (*Payload, error) {
	payload := &Payload{}

	for _, key := range opts.Selected() {
		src, ok := sources[key]
		if !ok {
			return nil, errors.Newf("no store registered for section %s", key)
		}

		snapshot, err := src.Snapshot()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s snapshot", key)
		}

		data, err := json.Marshal(snapshot)
		if err != nil {
			return nil, errors.Wrapf(err, "serializing %s snapshot", key)
		}

		raw := json.RawMessage(data)
		*payload.section(key) = &raw
	}

	return payload, nil
}

// decodePayload parses data into a Payload, rejecting documents that are
// not objects or that carry unknown sections. This is the shape check that
// guards against decrypted garbage which happens to parse as JSON.
func decodePayload(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(ErrBackupCorrupted, err.Error())
	}
	return &payload, nil
}
