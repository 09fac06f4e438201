package cryptocore

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// KeySize is the size of a Curve25519 public or private key.
const KeySize = 32

// KeyPair holds a Curve25519 key pair suitable for the public-key box.
type KeyPair struct {
	Public  [KeySize]byte
	Private [KeySize]byte
}

// GenerateKeyPair generates a new Curve25519 key pair, clamping the private
// scalar per RFC 7748.
func GenerateKeyPair() (*KeyPair, error) {
	var private [KeySize]byte
	if _, err := io.ReadFull(rand.Reader, private[:]); err != nil {
		return nil, fmt.Errorf("cryptocore: key generation failed: %w", err)
	}

	private[0] &= 248
	private[31] &= 127
	private[31] |= 64

	var public [KeySize]byte
	curve25519.ScalarBaseMult(&public, &private)

	return &KeyPair{Public: public, Private: private}, nil
}

// GenerateNonce returns a uniformly random 24-byte nonce.
func GenerateNonce() ([24]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nonce, fmt.Errorf("cryptocore: nonce generation failed: %w", err)
	}
	return nonce, nil
}
