package cryptocore

import "golang.org/x/crypto/blake2b"

// Blake2bHashSize hashes data to a hash of the given output size, matching
// the shape of Blake3HashSize (construct a fixed-output hasher, write once,
// sum) but backed by Blake2b, which is what the v8 handshake's nonce
// derivation specifically requires.
func Blake2bHashSize(data []byte, size int) ([]byte, error) {
	h, err := blake2b.New(size, nil)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}
