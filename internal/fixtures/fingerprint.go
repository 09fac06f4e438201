package fixtures

import (
	"encoding/hex"

	"github.com/clashforge/v8session/internal/cryptocore"
)

// FingerprintSize is the byte length of a session fingerprint, short enough
// to sit comfortably in a structured log field.
const FingerprintSize = 8

// SessionFingerprint derives a short, non-cryptographic correlation
// fingerprint from a pair of session public keys, for grep-able log
// correlation across a handshake's lifetime. It is built on BLAKE3, not
// Blake2b, deliberately: nothing in the handshake's security-relevant path
// ever touches this value, so there is no risk of conflating a diagnostic
// label with key material.
func SessionFingerprint(clientPublic, serverPublic [32]byte) string {
	material := make([]byte, 0, 64)
	material = append(material, clientPublic[:]...)
	material = append(material, serverPublic[:]...)

	digest := cryptocore.Blake3HashSize(material, FingerprintSize)
	return hex.EncodeToString(digest)
}
