package session

import "github.com/clashforge/v8session/internal/cryptocore"

// deriveTwoKeyNonce implements the two-key Blake2b nonce form: hash
// clientPublicKey || serverPublicKey (64 bytes) to 24 bytes. The byte order
// hashed is always client-first, server-second regardless of which side
// computes it -- only which key is "mine" vs "peer's" depends on direction,
// which the caller has already resolved before calling this.
func deriveTwoKeyNonce(clientPublic, serverPublic [32]byte) ([24]byte, error) {
	material := make([]byte, 0, 64)
	material = append(material, clientPublic[:]...)
	material = append(material, serverPublic[:]...)

	return hashToNonce(material)
}

// deriveThreeKeyNonce implements the three-key Blake2b nonce form: hash
// snonce(24) || clientPublicKey(32) || serverPublicKey(32) (88 bytes total)
// to 24 bytes.
func deriveThreeKeyNonce(snonce [24]byte, clientPublic, serverPublic [32]byte) ([24]byte, error) {
	material := make([]byte, 0, 88)
	material = append(material, snonce[:]...)
	material = append(material, clientPublic[:]...)
	material = append(material, serverPublic[:]...)

	return hashToNonce(material)
}

func hashToNonce(material []byte) ([24]byte, error) {
	var nonce [24]byte
	digest, err := cryptocore.Blake2bHashSize(material, 24)
	if err != nil {
		return nonce, err
	}
	copy(nonce[:], digest)
	return nonce, nil
}
