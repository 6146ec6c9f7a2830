package codec

import (
	"github.com/cockroachdb/errors"
)

// Version identifies an encryption scheme. The tag is persisted in the
// backup artifact header so both schemes remain restorable.
type Version string

const (
	// VersionLegacy is the hash/XOR scheme of the original mobile client.
	VersionLegacy Version = "v1"

	// VersionAEAD is the PBKDF2 + AES-256-GCM scheme. Default for new backups.
	VersionAEAD Version = "v2"
)

// Sentinel errors for codec operations.
var (
	// ErrDecryptionFailed indicates a backup could not be decrypted.
	// Neither scheme can reliably distinguish a wrong password from
	// corrupted ciphertext, so both causes surface as this one error.
	ErrDecryptionFailed = errors.New("decryption failed: incorrect password or Invalid JSON structure")

	// ErrSerialization indicates a payload could not be serialized to JSON.
	ErrSerialization = errors.New("payload is not JSON-serializable")

	// ErrUnknownVersion indicates an unrecognized codec version tag.
	ErrUnknownVersion = errors.New("unknown codec version")
)

// EncryptedArtifact is the storable result of encrypting a payload.
// Field names follow the backup document format of the original client.
type EncryptedArtifact struct {
	// EncryptedData is the ciphertext, encoded per the scheme
	// (raw XOR output for v1, base64 nonce||ciphertext for v2).
	EncryptedData string `json:"encryptedData"`

	// Salt is the per-encryption random value (hex for v1, base64 for v2).
	Salt string `json:"salt"`
}

// Codec encrypts and decrypts backup payloads using a fixed scheme version.
// A Codec is stateless and safe for concurrent use.
type Codec struct {
	version Version
}

// New creates a Codec for the given scheme version.
func New(v Version) (*Codec, error) {
	switch v {
	case VersionLegacy, VersionAEAD:
		return &Codec{version: v}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownVersion, "%q", v)
	}
}

// Default returns a Codec using the current default scheme (v2).
func Default() *Codec {
	return &Codec{version: VersionAEAD}
}

// Version returns the scheme version this Codec uses.
func (c *Codec) Version() Version {
	return c.version
}

// Encrypt serializes payload to JSON and encrypts it with a key derived
// from password and a fresh random salt. Each call draws an independent
// salt, so encrypting the same payload twice yields different ciphertext.
func (c *Codec) Encrypt(payload any, password string) (*EncryptedArtifact, error) {
	switch c.version {
	case VersionLegacy:
		return encryptLegacy(payload, password)
	default:
		return encryptAEAD(payload, password)
	}
}

// Decrypt reverses Encrypt: it derives the key from password and salt,
// decrypts encryptedData, and parses the plaintext as JSON.
//
// The reserved parameter carries no semantics in the current format; it is
// accepted for forward compatibility with future artifact revisions and
// must be passed through unchanged.
//
// A wrong password and a corrupted artifact are indistinguishable here;
// both return ErrDecryptionFailed. In the legacy scheme decrypted garbage
// can accidentally parse as valid JSON (a bare number, for instance), so
// callers must validate the returned value against the expected payload
// shape before applying it.
func (c *Codec) Decrypt(encryptedData, password, salt, reserved string) (any, error) {
	_ = reserved // reserved for future artifact revisions

	switch c.version {
	case VersionLegacy:
		return decryptLegacy(encryptedData, password, salt)
	default:
		return decryptAEAD(encryptedData, password, salt)
	}
}
