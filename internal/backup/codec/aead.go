package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/pbkdf2"
)

// v2 parameters. The iteration count follows current OWASP guidance for
// PBKDF2-HMAC-SHA256; changing it breaks existing v2 backups.
const (
	aeadIterations = 210_000
	aeadKeySize    = 32
)

// deriveAEADKey stretches the password into an AES-256 key.
func deriveAEADKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, aeadIterations, aeadKeySize, sha256.New)
}

// newGCM builds an AES-256-GCM AEAD for the given key.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "creating cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "creating GCM")
	}
	return gcm, nil
}

// encryptAEAD implements the v2 scheme: PBKDF2-HMAC-SHA256 + AES-256-GCM.
// The nonce is prepended to the ciphertext and the whole blob is base64.
func encryptAEAD(payload any, password string) (*EncryptedArtifact, error) {
	rawSalt, saltB64, err := newRawSalt()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(ErrSerialization, err.Error())
	}

	gcm, err := newGCM(deriveAEADKey(password, rawSalt))
	if err != nil {
		return nil, err
	}

	nonce, err := randomBytes(gcm.NonceSize())
	if err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)

	return &EncryptedArtifact{
		EncryptedData: base64.StdEncoding.EncodeToString(sealed),
		Salt:          saltB64,
	}, nil
}

// decryptAEAD reverses encryptAEAD. Authentication failure, malformed
// encodings, and unparseable plaintext all collapse into
// ErrDecryptionFailed to keep parity with the legacy error contract.
func decryptAEAD(encryptedData, password, salt string) (any, error) {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, err.Error())
	}

	sealed, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, err.Error())
	}

	gcm, err := newGCM(deriveAEADKey(password, rawSalt))
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, errors.Wrap(ErrDecryptionFailed, "ciphertext shorter than nonce")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	data, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, err.Error())
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrap(ErrDecryptionFailed, err.Error())
	}
	return value, nil
}
