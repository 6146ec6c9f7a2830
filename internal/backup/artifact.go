package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/skiffhq/skiff/internal/backup/codec"
)

// FormatName tags backup documents so unrelated JSON files are rejected
// before any decryption work.
const FormatName = "skiff-backup"

// FormatVersion is the backup document format version.
const FormatVersion = 1

// DefaultRetentionCount is the default number of backups to retain.
const DefaultRetentionCount = 10

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backup artifacts exist.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates an artifact failed format or shape
	// validation.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrPasswordRequired indicates an encrypted artifact was opened
	// without a password.
	ErrPasswordRequired = errors.New("backup is encrypted: password required")
)

// Artifact is the portable backup document. The header fields are always
// plaintext; the payload is either embedded directly or replaced by a
// single encrypted blob. Field names are part of the document format.
type Artifact struct {
	// Format is always FormatName.
	Format string `json:"format"`

	// Version is the document format version.
	Version int `json:"version"`

	// ID identifies the artifact (timestamp plus a random suffix).
	ID string `json:"id"`

	// CreatedAt is when the export was assembled, in UTC.
	CreatedAt time.Time `json:"createdAt"`

	// AppVersion is the skiff version that created the export.
	AppVersion string `json:"appVersion"`

	// Sections lists the section keys present in the payload, in document
	// order, so tooling can inspect an encrypted backup's contents without
	// the password.
	Sections []string `json:"sections"`

	// Codec names the encryption scheme, or is empty for plaintext exports.
	Codec codec.Version `json:"codec,omitempty"`

	// Checksum is the hex SHA256 of the serialized plaintext payload.
	// Empty for encrypted exports, where the codec covers integrity.
	Checksum string `json:"checksum,omitempty"`

	// Data holds the plaintext payload. Mutually exclusive with Encrypted.
	Data *Payload `json:"data,omitempty"`

	// Encrypted holds the encrypted payload. Mutually exclusive with Data.
	Encrypted *codec.EncryptedArtifact `json:"encrypted,omitempty"`
}

// IsEncrypted reports whether the payload requires a password to read.
// The codec tag is consulted rather than the payload blob so the answer
// survives listings that strip payloads.
func (a *Artifact) IsEncrypted() bool {
	return a.Codec != ""
}

// validateHeader rejects documents that are not skiff backups or that
// carry an inconsistent payload.
func (a *Artifact) validateHeader() error {
	if a.Format != FormatName {
		return errors.Wrapf(ErrBackupCorrupted, "unexpected format %q", a.Format)
	}
	if a.Version < 1 || a.Version > FormatVersion {
		return errors.Wrapf(ErrBackupCorrupted, "unsupported document version %d", a.Version)
	}
	if a.Data == nil && a.Encrypted == nil {
		return errors.Wrap(ErrBackupCorrupted, "document carries no payload")
	}
	if a.Data != nil && a.Encrypted != nil {
		return errors.Wrap(ErrBackupCorrupted, "document carries both plaintext and encrypted payloads")
	}
	if a.Encrypted != nil && a.Codec == "" {
		return errors.Wrap(ErrBackupCorrupted, "encrypted document missing codec tag")
	}
	return nil
}

// PayloadChecksum computes the hex SHA256 of a payload's serialized form.
// Serialization is deterministic: fields marshal in declaration order and
// raw section values are compacted on write.
func PayloadChecksum(p *Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "serializing payload")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyChecksum checks a plaintext artifact's payload against its recorded
// checksum. Artifacts without a checksum pass; encrypted artifacts are
// covered by their codec instead.
func (a *Artifact) VerifyChecksum() error {
	if a.Checksum == "" || a.Data == nil {
		return nil
	}
	got, err := PayloadChecksum(a.Data)
	if err != nil {
		return err
	}
	if got != a.Checksum {
		return errors.Wrap(ErrBackupCorrupted, "payload checksum mismatch")
	}
	return nil
}
