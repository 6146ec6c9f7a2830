package codec

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	"github.com/cockroachdb/errors"
)

// saltSize is the number of random bytes in a salt (128 bits).
const saltSize = 16

// randomBytes returns n bytes from the operating system's CSPRNG.
func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.Wrap(err, "reading random bytes")
	}
	return buf, nil
}

// newHexSalt returns a fresh hex-encoded salt for the legacy scheme.
func newHexSalt() (string, error) {
	raw, err := randomBytes(saltSize)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// newRawSalt returns a fresh salt as raw bytes plus its base64 encoding,
// as used by the AEAD scheme.
func newRawSalt() ([]byte, string, error) {
	raw, err := randomBytes(saltSize)
	if err != nil {
		return nil, "", err
	}
	return raw, base64.StdEncoding.EncodeToString(raw), nil
}
