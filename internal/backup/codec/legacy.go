package codec

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// encryptLegacy implements the v1 scheme: canonical JSON serialization,
// rolling-hash key derivation, repeating-key XOR.
func encryptLegacy(payload any, password string) (*EncryptedArtifact, error) {
	salt, err := newHexSalt()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(ErrSerialization, err.Error())
	}

	key := DeriveKey(password, salt)

	return &EncryptedArtifact{
		EncryptedData: xorCipher(string(data), key),
		Salt:          salt,
	}, nil
}

// decryptLegacy reverses encryptLegacy. The cipher is self-inverse, so
// decryption applies the identical transform with the re-derived key.
func decryptLegacy(encryptedData, password, salt string) (any, error) {
	key := DeriveKey(password, salt)
	plain := xorCipher(encryptedData, key)

	var value any
	if err := json.Unmarshal([]byte(plain), &value); err != nil {
		// No authentication tag: a bad password and corrupted input both
		// land here as unparseable plaintext.
		return nil, errors.Wrap(ErrDecryptionFailed, err.Error())
	}
	return value, nil
}
