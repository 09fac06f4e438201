package session

// Direction is the role a session plays in the handshake. It is fixed at
// construction and drives key ordering in Blake2b nonce derivation.
type Direction int

const (
	// Client sessions place their own public key first in the Blake2b
	// nonce derivation's key material.
	Client Direction = iota
	// Server sessions place the peer's (the client's) public key first.
	Server
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Client:
		return "CLIENT"
	case Server:
		return "SERVER"
	default:
		return "UNKNOWN"
	}
}

// State is one of the four states the session's handshake state machine
// passes through. Transitions are monotone: None -> InitialKey ->
// (BlakeNonce ->)? SecondKey. There is no backward transition and no
// transition may skip InitialKey.
type State int

const (
	// None is the initial state: no shared key, no nonces, no bulk traffic.
	None State = iota
	// InitialKey holds the peer's static public key and a two-key Blake2b
	// nonce. encrypt/decrypt run via the public-key box in this state.
	InitialKey
	// BlakeNonce re-derives the Blake2b nonce using a three-key form that
	// consumes the server nonce. The shared key is unchanged from
	// InitialKey. encrypt/decrypt still run via the public-key box.
	BlakeNonce
	// SecondKey holds the derived symmetric key k and both counter
	// nonces. This is the terminal state: bulk traffic flows exclusively
	// via the secret-key box from here on.
	SecondKey
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case None:
		return "NONE"
	case InitialKey:
		return "INITIAL_KEY"
	case BlakeNonce:
		return "BLAKE_NONCE"
	case SecondKey:
		return "SECOND_KEY"
	default:
		return "UNKNOWN"
	}
}

// NonceKind selects which nonce UpdateNonce is setting.
type NonceKind int

const (
	// Blake re-derives the Blake2b hashing nonce from a server-supplied
	// snonce, transitioning InitialKey -> BlakeNonce. It is a no-op (but
	// still legal) when already in BlakeNonce.
	Blake NonceKind = iota
	// Encrypt installs the encrypt counter nonce.
	Encrypt
	// Decrypt installs the decrypt counter nonce.
	Decrypt
)

// sharedKeyKind distinguishes the two meanings the shared-key slot can hold.
// The distilled design overloads one byte slice for both; here it is modeled
// as a small tagged variant so the slot records which meaning its bytes
// hold. Encrypt/Decrypt dispatch on the session state, which each
// transition keeps in step with the tag.
type sharedKeyKind int

const (
	sharedKeyNone sharedKeyKind = iota
	sharedKeyPeer
	sharedKeyDerived
)

// sharedKey is the tagged variant backing the Shared Key entity: the peer's
// static public key in states InitialKey/BlakeNonce, or the derived
// symmetric key k in state SecondKey.
type sharedKey struct {
	kind  sharedKeyKind
	bytes [32]byte
}
