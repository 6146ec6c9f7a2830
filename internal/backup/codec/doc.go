// Package codec encrypts and decrypts backup payloads.
//
// Two schemes are supported, selected by a version tag persisted in the
// backup artifact header:
//
//   - [VersionLegacy] ("v1") reproduces the scheme used by the original
//     mobile client: a 32-bit rolling hash iterated 10,000 times over
//     password+salt derives an 8-hex-character key, which drives a
//     repeating-key XOR over the serialized payload's code points. The
//     scheme is weak (32-bit effective keyspace, no authentication) and
//     exists only so previously created backups remain restorable.
//
//   - [VersionAEAD] ("v2", the default) uses PBKDF2-HMAC-SHA256 key
//     derivation and AES-256-GCM. Wrong passwords fail authentication
//     instead of producing garbage plaintext.
//
// Both schemes share the same contract: encrypting a JSON-serializable
// payload yields an [EncryptedArtifact] of two storable strings, and
// decrypting with the same password and salt reproduces a structurally
// identical value. Neither the legacy scheme nor GCM can tell a wrong
// password from corrupted input in every case, so both failure modes
// surface as the single [ErrDecryptionFailed].
//
// A Codec holds no state beyond its version; concurrent calls are
// independent and each encryption draws a fresh random salt.
package codec
