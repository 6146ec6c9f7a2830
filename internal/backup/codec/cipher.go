package codec

import "strings"

// xorCipher applies a repeating-key XOR over the code points of text.
// The same call decrypts what it encrypted: XOR is self-inverse.
//
// The transform operates on code points, not encoded bytes. Keys are
// always 8 hex characters (ASCII), so the XOR flips only the low seven
// bits of each code point; a valid code point can never be pushed into
// the surrogate range or past the Unicode ceiling, and multi-unit
// sequences such as emoji survive the round trip exactly. Byte-level XOR
// would corrupt multi-byte UTF-8 sequences and must not be substituted
// on only one side.
func xorCipher(text, key string) string {
	keyRunes := []rune(key)
	if len(keyRunes) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for _, r := range text {
		b.WriteRune(r ^ keyRunes[i%len(keyRunes)])
		i++
	}
	return b.String()
}
