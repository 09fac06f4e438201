// Package cryptocore provides the cryptographic primitives the v8 session
// core is built on.
package cryptocore

import "lukechampine.com/blake3"

// Blake3HashSize returns a BLAKE3 hash of data truncated/extended to size
// bytes. Used only for non-security log correlation (session fingerprints);
// the handshake itself never touches BLAKE3, see blake2b.go.
func Blake3HashSize(data []byte, size int) []byte {
	h := blake3.New(size, nil)
	h.Write(data)
	return h.Sum(nil)
}
