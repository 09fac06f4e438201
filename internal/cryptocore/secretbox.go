package cryptocore

import "golang.org/x/crypto/nacl/secretbox"

// SKBoxSeal authenticates and encrypts plaintext under key and nonce. This is
// the "secret-key box" construction (XSalsa20-Poly1305).
func SKBoxSeal(plaintext []byte, nonce *[24]byte, key *[32]byte) []byte {
	return secretbox.Seal(nil, plaintext, nonce, key)
}

// SKBoxOpen authenticates and decrypts ciphertext sealed with SKBoxSeal.
func SKBoxOpen(ciphertext []byte, nonce *[24]byte, key *[32]byte) ([]byte, error) {
	plaintext, ok := secretbox.Open(nil, ciphertext, nonce, key)
	if !ok {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
