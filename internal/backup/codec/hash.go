package codec

import (
	"fmt"
	"strconv"
)

// kdfRounds is the number of re-hash rounds used by the legacy key
// derivation. Changing it breaks compatibility with existing backups.
const kdfRounds = 10000

// Hash reduces text to an 8-character lowercase hex token.
//
// The accumulator is a 32-bit signed integer updated as
// acc = (acc << 5) - acc + codepoint, wrapping exactly as native 32-bit
// arithmetic does. The fixed width matters: re-implementations using
// arbitrary-precision integers produce different tokens for the same
// input once the accumulator overflows.
func Hash(text string) string {
	var acc int32
	for _, r := range text {
		acc = (acc << 5) - acc + r
	}

	// Widen before negating so the minimum int32 keeps its magnitude.
	v := int64(acc)
	if v < 0 {
		v = -v
	}
	return fmt.Sprintf("%08x", v)
}

// DeriveKey derives the legacy symmetric key from a password and salt.
//
// The state is seeded with password+salt and re-hashed kdfRounds times,
// folding the round index into each iteration. The result is the final
// 8-hex-character hash state. Deterministic: identical inputs always
// yield an identical key. The keyspace is only 32 bits, which is why the
// legacy scheme is kept solely for restoring old backups.
func DeriveKey(password, salt string) string {
	state := password + salt
	for i := 0; i < kdfRounds; i++ {
		state = Hash(state + strconv.Itoa(i))
	}
	return state
}
