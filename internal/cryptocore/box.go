package cryptocore

import (
	"errors"

	"golang.org/x/crypto/nacl/box"
)

// ErrAuthFailure indicates a MAC verification failure on open.
var ErrAuthFailure = errors.New("cryptocore: authentication failed")

// PKBoxSeal authenticates and encrypts plaintext for peerPublic using
// myPrivate, under nonce. This is the "public-key box" construction
// (Curve25519 + XSalsa20-Poly1305, combined/non-detached form).
//
// golang.org/x/crypto/nacl/box already returns the combined form with no
// separate zero-padding step; the 16-byte pad convention some libsodium
// bindings impose is internal to that library, not part of the wire
// contract, so it has no counterpart here.
func PKBoxSeal(plaintext []byte, nonce *[24]byte, myPrivate, peerPublic *[32]byte) []byte {
	return box.Seal(nil, plaintext, nonce, peerPublic, myPrivate)
}

// PKBoxOpen authenticates and decrypts ciphertext sealed with PKBoxSeal.
func PKBoxOpen(ciphertext []byte, nonce *[24]byte, myPrivate, peerPublic *[32]byte) ([]byte, error) {
	plaintext, ok := box.Open(nil, ciphertext, nonce, peerPublic, myPrivate)
	if !ok {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
