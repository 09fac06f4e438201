package session

import "errors"

// ErrInvalidArgument indicates a nil buffer, a key of length != 32, a nonce
// of length != 24, or an unrecognized NonceKind.
var ErrInvalidArgument = errors.New("session: invalid argument")

// ErrInvalidState indicates an operation illegal in the session's current
// state: encrypt/decrypt before any shared key, an update attempted after
// SecondKey, or a transition to SecondKey without both counter nonces set.
var ErrInvalidState = errors.New("session: invalid state transition")

// ErrAuthFailure indicates the underlying primitive reported a MAC
// verification failure on decrypt. A session that returns ErrAuthFailure has
// no correct recovery and must be discarded by the caller.
var ErrAuthFailure = errors.New("session: authentication failed")
