package protocol

import "encoding/binary"

// Handshake opcodes.
const (
	OpClientHello   uint16 = 10101
	OpServerHello   uint16 = 20100
	OpLoginSuccess  uint16 = 20104
)

// ClientHelloMessage is the client's opening move: its declared protocol
// version and its static Curve25519 public key. Its arrival at the server
// triggers session.UpdateSharedKey(PublicKey).
type ClientHelloMessage struct {
	ProtocolVersion uint32
	PublicKey       [32]byte
}

// Encode serializes a ClientHelloMessage payload (4 + 32 bytes).
func (m *ClientHelloMessage) Encode() []byte {
	buf := make([]byte, 4+32)
	binary.BigEndian.PutUint32(buf[0:4], m.ProtocolVersion)
	copy(buf[4:36], m.PublicKey[:])
	return buf
}

// DecodeClientHelloMessage deserializes a ClientHelloMessage payload.
func DecodeClientHelloMessage(data []byte) (*ClientHelloMessage, error) {
	if len(data) != 4+32 {
		return nil, ErrMalformedFrame
	}
	m := &ClientHelloMessage{
		ProtocolVersion: binary.BigEndian.Uint32(data[0:4]),
	}
	copy(m.PublicKey[:], data[4:36])
	return m, nil
}

// ServerHelloMessage carries the server nonce used in three-key Blake2b
// nonce re-derivation. Once exchanged, both sides call
// session.UpdateNonce(ServerNonce, Blake).
type ServerHelloMessage struct {
	ServerNonce [24]byte
}

// Encode serializes a ServerHelloMessage payload (24 bytes).
func (m *ServerHelloMessage) Encode() []byte {
	buf := make([]byte, 24)
	copy(buf, m.ServerNonce[:])
	return buf
}

// DecodeServerHelloMessage deserializes a ServerHelloMessage payload.
func DecodeServerHelloMessage(data []byte) (*ServerHelloMessage, error) {
	if len(data) != 24 {
		return nil, ErrMalformedFrame
	}
	m := &ServerHelloMessage{}
	copy(m.ServerNonce[:], data)
	return m, nil
}

// LoginSuccessMessage marks arrival of the derived symmetric key k and both
// bulk-transport counter nonces. Processing it calls, in order,
// UpdateNonce(EncryptNonce, Encrypt), UpdateNonce(DecryptNonce, Decrypt),
// then UpdateSharedKey(DerivedKey) -- the order matters, since
// UpdateSharedKey's InitialKey/BlakeNonce -> SecondKey transition requires
// both counter nonces to already be set.
type LoginSuccessMessage struct {
	EncryptNonce [24]byte
	DecryptNonce [24]byte
	DerivedKey   [32]byte
}

// Encode serializes a LoginSuccessMessage payload (24 + 24 + 32 bytes).
func (m *LoginSuccessMessage) Encode() []byte {
	buf := make([]byte, 24+24+32)
	copy(buf[0:24], m.EncryptNonce[:])
	copy(buf[24:48], m.DecryptNonce[:])
	copy(buf[48:80], m.DerivedKey[:])
	return buf
}

// DecodeLoginSuccessMessage deserializes a LoginSuccessMessage payload.
func DecodeLoginSuccessMessage(data []byte) (*LoginSuccessMessage, error) {
	if len(data) != 24+24+32 {
		return nil, ErrMalformedFrame
	}
	m := &LoginSuccessMessage{}
	copy(m.EncryptNonce[:], data[0:24])
	copy(m.DecryptNonce[:], data[24:48])
	copy(m.DerivedKey[:], data[48:80])
	return m, nil
}
