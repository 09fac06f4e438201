// Package session implements the v8 handshake and bulk-transport crypto
// core: the session object, its encrypt/decrypt operations, the shared-key
// and nonce update operations, and the state machine that sequences them.
//
// The session is single-threaded cooperative: no method blocks or performs
// I/O, and the session is not internally synchronized. Concurrent callers
// must serialize externally -- the gameserver package does this by giving
// each connection's processor loop exclusive ownership of its session.
package session

import (
	"fmt"

	"github.com/clashforge/v8session/internal/cryptocore"
)

// Session is the v8 protocol's cryptographic session core.
type Session struct {
	direction Direction
	keys      *cryptocore.KeyPair

	state State
	peer  sharedKey

	blakeNonce [24]byte

	encryptNonce    [24]byte
	decryptNonce    [24]byte
	hasEncryptNonce bool
	hasDecryptNonce bool
}

// New constructs a session in state None for the given direction. If keys is
// nil, a fresh Curve25519 key pair is generated. The session keeps its own
// copy of keys, so Close never zeroes the caller's key pair.
func New(direction Direction, keys *cryptocore.KeyPair) (*Session, error) {
	if keys == nil {
		var err error
		keys, err = cryptocore.GenerateKeyPair()
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	owned := *keys

	return &Session{
		direction: direction,
		keys:      &owned,
		state:     None,
	}, nil
}

// Direction returns the session's fixed role.
func (s *Session) Direction() Direction { return s.direction }

// State returns the session's current handshake state.
func (s *Session) State() State { return s.state }

// PublicKey returns this session's own public key.
func (s *Session) PublicKey() [32]byte { return s.keys.Public }

// clientServerOrder resolves which of (our public key, peer's public key) is
// the client's and which is the server's, per the client-first/server-second
// ordering rule that Blake2b nonce derivation always uses regardless of
// which side is computing it.
func (s *Session) clientServerOrder(peerPublic [32]byte) (clientPublic, serverPublic [32]byte) {
	if s.direction == Client {
		return s.keys.Public, peerPublic
	}
	return peerPublic, s.keys.Public
}

// UpdateSharedKey installs peer-key material into the session, advancing its
// state per §4.4:
//   - None -> InitialKey: key is the peer's 32-byte static public key; the
//     two-key Blake2b nonce is derived from it.
//   - InitialKey or BlakeNonce -> SecondKey: key is the 32-byte derived
//     symmetric key k; requires both counter nonces already set via
//     UpdateNonce.
//
// Any other state fails with ErrInvalidState; a key of length != 32 fails
// with ErrInvalidArgument, and in neither failure case is any field written.
func (s *Session) UpdateSharedKey(key []byte) error {
	if key == nil || len(key) != 32 {
		return ErrInvalidArgument
	}

	switch s.state {
	case None:
		var peerPublic [32]byte
		copy(peerPublic[:], key)

		clientPublic, serverPublic := s.clientServerOrder(peerPublic)
		nonce, err := deriveTwoKeyNonce(clientPublic, serverPublic)
		if err != nil {
			return fmt.Errorf("session: deriving blake nonce: %w", err)
		}

		s.peer = sharedKey{kind: sharedKeyPeer, bytes: peerPublic}
		s.blakeNonce = nonce
		s.state = InitialKey
		return nil

	case InitialKey, BlakeNonce:
		if !s.hasEncryptNonce || !s.hasDecryptNonce {
			return ErrInvalidState
		}

		var derived [32]byte
		copy(derived[:], key)

		s.peer = sharedKey{kind: sharedKeyDerived, bytes: derived}
		s.state = SecondKey
		return nil

	default: // SecondKey
		return ErrInvalidState
	}
}

// UpdateNonce installs a nonce of the given kind. Blake re-derives the
// three-key Blake2b nonce from a server nonce and transitions
// InitialKey -> BlakeNonce (a no-op, but still legal, if already in
// BlakeNonce). Encrypt/Decrypt store the corresponding counter nonce without
// changing state. Legal only in states InitialKey and BlakeNonce; a nonce of
// length != 24 fails with ErrInvalidArgument and an unrecognized kind also
// fails with ErrInvalidArgument. Neither failure mutates the session.
func (s *Session) UpdateNonce(nonce []byte, kind NonceKind) error {
	if nonce == nil || len(nonce) != 24 {
		return ErrInvalidArgument
	}

	switch s.state {
	case InitialKey, BlakeNonce:
		switch kind {
		case Blake:
			if s.state == BlakeNonce {
				// Already re-derived; re-entry is a no-op (§4.4).
				return nil
			}
			if s.peer.kind != sharedKeyPeer {
				return ErrInvalidState
			}
			var snonce [24]byte
			copy(snonce[:], nonce)

			clientPublic, serverPublic := s.clientServerOrder(s.peer.bytes)
			derived, err := deriveThreeKeyNonce(snonce, clientPublic, serverPublic)
			if err != nil {
				return fmt.Errorf("session: deriving blake nonce: %w", err)
			}

			s.blakeNonce = derived
			s.state = BlakeNonce
			return nil

		case Encrypt:
			var n [24]byte
			copy(n[:], nonce)
			s.encryptNonce = n
			s.hasEncryptNonce = true
			return nil

		case Decrypt:
			var n [24]byte
			copy(n[:], nonce)
			s.decryptNonce = n
			s.hasDecryptNonce = true
			return nil

		default:
			return ErrInvalidArgument
		}

	default: // None, SecondKey
		return ErrInvalidState
	}
}

// Encrypt seals plaintext for the peer, using the public-key box in states
// InitialKey/BlakeNonce and the secret-key box (after bumping the encrypt
// counter nonce by two) in state SecondKey. Fails with ErrInvalidState in
// state None.
func (s *Session) Encrypt(plaintext []byte) ([]byte, error) {
	switch s.state {
	case None:
		return nil, ErrInvalidState

	case InitialKey, BlakeNonce:
		peerPublic := s.peer.bytes
		return cryptocore.PKBoxSeal(plaintext, &s.blakeNonce, &s.keys.Private, &peerPublic), nil

	case SecondKey:
		cryptocore.IncrementNonceByTwo(&s.encryptNonce)
		key := s.peer.bytes
		return cryptocore.SKBoxSeal(plaintext, &s.encryptNonce, &key), nil

	default:
		return nil, ErrInvalidState
	}
}

// Decrypt opens ciphertext from the peer, mirroring Encrypt's per-state
// dispatch. A primitive MAC failure is reported as ErrAuthFailure; the
// relevant counter nonce has already been advanced by the time that happens
// and is not rolled back (replaying a counter nonce against a valid
// ciphertext would be unsafe) -- the session must be discarded by the
// caller.
func (s *Session) Decrypt(ciphertext []byte) ([]byte, error) {
	switch s.state {
	case None:
		return nil, ErrInvalidState

	case InitialKey, BlakeNonce:
		peerPublic := s.peer.bytes
		plaintext, err := cryptocore.PKBoxOpen(ciphertext, &s.blakeNonce, &s.keys.Private, &peerPublic)
		if err != nil {
			return nil, ErrAuthFailure
		}
		return plaintext, nil

	case SecondKey:
		cryptocore.IncrementNonceByTwo(&s.decryptNonce)
		key := s.peer.bytes
		plaintext, err := cryptocore.SKBoxOpen(ciphertext, &s.decryptNonce, &key)
		if err != nil {
			return nil, ErrAuthFailure
		}
		return plaintext, nil

	default:
		return nil, ErrInvalidState
	}
}

// Close zeroes the session's key material and nonces. The session must not
// be used after Close.
func (s *Session) Close() {
	for i := range s.keys.Private {
		s.keys.Private[i] = 0
	}
	for i := range s.keys.Public {
		s.keys.Public[i] = 0
	}
	for i := range s.peer.bytes {
		s.peer.bytes[i] = 0
	}
	for i := range s.blakeNonce {
		s.blakeNonce[i] = 0
	}
	for i := range s.encryptNonce {
		s.encryptNonce[i] = 0
	}
	for i := range s.decryptNonce {
		s.decryptNonce[i] = 0
	}
}
