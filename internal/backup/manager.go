package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/skiffhq/skiff/internal/backup/codec"
	"github.com/skiffhq/skiff/internal/paths"
	"github.com/skiffhq/skiff/pkg/fileutil"
)

// ArtifactExt is the file extension of backup documents on disk.
const ArtifactExt = ".skiff-backup.json"

// Manager orchestrates backup export, restore, listing, and retention.
// Construct one per composition root and pass it by reference; it holds
// no global state, so concurrent managers over different directories do
// not interfere.
type Manager struct {
	rootDir        string
	retentionCount int
	codec          *codec.Codec
	sources        Sources
	appVersion     string
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the directory where artifacts are written.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups to retain.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithCodec sets the codec used for new encrypted exports. Restores pick
// the codec from the artifact's header tag regardless of this setting.
func WithCodec(c *codec.Codec) Option {
	return func(m *Manager) {
		m.codec = c
	}
}

// WithSources sets the section stores the assembler reads and the restore
// path writes.
func WithSources(s Sources) Option {
	return func(m *Manager) {
		m.sources = s
	}
}

// WithAppVersion sets the version string recorded in artifact headers.
func WithAppVersion(v string) Option {
	return func(m *Manager) {
		m.appVersion = v
	}
}

// NewManager creates a backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupsDir(),
		retentionCount: DefaultRetentionCount,
		codec:          codec.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RetentionCount returns the configured retention count.
func (m *Manager) RetentionCount() int {
	return m.retentionCount
}

// Export validates opts, assembles the selected sections into a payload,
// optionally encrypts it, and writes the artifact atomically. A cancelled
// context aborts before the file is written; a failed write never leaves
// a partial artifact behind.
func (m *Manager) Export(ctx context.Context, opts ExportOptions) (*Artifact, error) {
	if v := ValidateExportOptions(opts); !v.Valid {
		return nil, errors.Newf("invalid export options: %s", strings.Join(v.Errors, "; "))
	}

	payload, err := assemblePayload(opts, m.sources)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		Format:     FormatName,
		Version:    FormatVersion,
		ID:         newArtifactID(),
		CreatedAt:  time.Now().UTC(),
		AppVersion: m.appVersion,
		Sections:   payload.Sections(),
	}

	if opts.EncryptSensitive {
		encrypted, err := m.codec.Encrypt(payload, opts.Password)
		if err != nil {
			return nil, errors.Wrap(err, "encrypting payload")
		}
		artifact.Codec = m.codec.Version()
		artifact.Encrypted = encrypted
	} else {
		checksum, err := PayloadChecksum(payload)
		if err != nil {
			return nil, err
		}
		artifact.Checksum = checksum
		artifact.Data = payload
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "export cancelled")
	}

	if err := paths.EnsureDir(m.rootDir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	// Backups carry credentials even when plaintext sections look benign;
	// keep the file private.
	if err := fileutil.AtomicWriteJSONWithPerm(m.ArtifactPath(artifact.ID), artifact, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing backup artifact")
	}

	return artifact, nil
}

// Open reads an artifact by ID and returns its payload, decrypting if
// necessary. The payload is fully parsed and shape-validated before it is
// returned; nothing is applied to any store.
func (m *Manager) Open(id, password string) (*Artifact, *Payload, error) {
	artifact, err := m.Get(id)
	if err != nil {
		return nil, nil, err
	}

	payload, err := m.openPayload(artifact, password)
	if err != nil {
		return nil, nil, err
	}
	return artifact, payload, nil
}

// openPayload extracts and validates the payload of a loaded artifact.
func (m *Manager) openPayload(artifact *Artifact, password string) (*Payload, error) {
	if !artifact.IsEncrypted() {
		if artifact.Data == nil {
			return nil, errors.Wrap(ErrBackupCorrupted, "document carries no payload")
		}
		if err := artifact.VerifyChecksum(); err != nil {
			return nil, err
		}
		return artifact.Data, nil
	}

	if password == "" {
		return nil, ErrPasswordRequired
	}

	c, err := codec.New(artifact.Codec)
	if err != nil {
		return nil, errors.Wrapf(ErrBackupCorrupted, "codec tag %q", artifact.Codec)
	}

	value, err := c.Decrypt(artifact.Encrypted.EncryptedData, password, artifact.Encrypted.Salt, "")
	if err != nil {
		return nil, err
	}

	// The decrypted value parsed as JSON, but the legacy scheme cannot
	// authenticate it. Re-serialize and strict-decode against the payload
	// shape before trusting anything.
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(ErrBackupCorrupted, err.Error())
	}
	payload, err := decodePayload(data)
	if err != nil {
		return nil, err
	}
	if len(payload.Sections()) == 0 {
		return nil, errors.Wrap(ErrBackupCorrupted, "decrypted payload contains no sections")
	}
	return payload, nil
}

// Restore applies a backup to the section stores. The artifact is read,
// decrypted, parsed, and shape-validated in full before any store is
// touched, so a wrong password or corrupted document leaves application
// state unchanged. Sections absent from the payload are left untouched.
func (m *Manager) Restore(ctx context.Context, id, password string) ([]string, error) {
	_, payload, err := m.Open(id, password)
	if err != nil {
		return nil, err
	}

	// Resolve every target store before writing to any of them.
	sections := payload.Sections()
	for _, key := range sections {
		if _, ok := m.sources[key]; !ok {
			return nil, errors.Newf("no store registered for section %s", key)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "restore cancelled")
	}

	for _, key := range sections {
		if err := m.sources[key].Apply(payload.Section(key)); err != nil {
			return nil, errors.Wrapf(err, "applying %s snapshot", key)
		}
	}

	return sections, nil
}

// List returns all artifacts in the backup directory, newest first.
// Unparseable files are skipped. Payload fields are cleared; use Open to
// read a payload.
func (m *Manager) List() ([]Artifact, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ArtifactExt) {
			continue
		}

		artifact, err := m.Get(strings.TrimSuffix(entry.Name(), ArtifactExt))
		if err != nil {
			// Skip foreign or damaged files rather than failing the listing.
			continue
		}

		artifact.Data = nil
		artifact.Encrypted = nil
		artifacts = append(artifacts, *artifact)
	}

	if len(artifacts) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(artifacts, func(a, b Artifact) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return artifacts, nil
}

// Get loads a single artifact by ID, including its payload fields, and
// validates the header.
func (m *Manager) Get(id string) (*Artifact, error) {
	if id == "" {
		return nil, errors.New("backup ID is required")
	}

	data, err := os.ReadFile(m.ArtifactPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading backup artifact")
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrap(ErrBackupCorrupted, err.Error())
	}
	if err := artifact.validateHeader(); err != nil {
		return nil, err
	}

	return &artifact, nil
}

// Prune removes artifacts beyond the given retention count, keeping the
// most recent ones. Returns the IDs removed.
func (m *Manager) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	artifacts, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil, nil // Nothing to prune
		}
		return nil, err
	}

	var removed []string
	for i := keep; i < len(artifacts); i++ {
		if err := os.Remove(m.ArtifactPath(artifacts[i].ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", artifacts[i].ID)
		}
		removed = append(removed, artifacts[i].ID)
	}

	return removed, nil
}

// ArtifactPath returns the on-disk path for an artifact ID.
func (m *Manager) ArtifactPath(id string) string {
	return filepath.Join(m.rootDir, id+ArtifactExt)
}

// newArtifactID generates a sortable, collision-free artifact ID:
// a UTC timestamp plus a short random suffix so two exports in the same
// second do not overwrite each other.
func newArtifactID() string {
	return time.Now().UTC().Format("20060102T150405") + "-" + uuid.NewString()[:8]
}
