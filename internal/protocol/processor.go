package protocol

import (
	"fmt"
	"io"

	"github.com/clashforge/v8session/internal/session"
)

// Processor owns the opcode -> handler table for one connection and is the
// sole caller of session.UpdateSharedKey/UpdateNonce outside tests, keeping
// the session itself ignorant of framing and opcodes.
type Processor struct {
	Session *session.Session
}

// NewProcessor wraps sess in a Processor.
func NewProcessor(sess *session.Session) *Processor {
	return &Processor{Session: sess}
}

// HandleFrame decodes f by opcode and advances the session accordingly.
// Gameplay opcodes (ShutdownInfo, SpeedUpHeroUpgrade) are returned decoded
// but otherwise untouched -- dispatching their effects is the caller's
// concern, not the protocol layer's.
func (p *Processor) HandleFrame(f *Frame) (any, error) {
	switch f.Opcode {
	case OpClientHello:
		msg, err := DecodeClientHelloMessage(f.Payload)
		if err != nil {
			return nil, err
		}
		if err := p.Session.UpdateSharedKey(msg.PublicKey[:]); err != nil {
			return nil, fmt.Errorf("protocol: handling ClientHelloMessage: %w", err)
		}
		return msg, nil

	case OpServerHello:
		msg, err := DecodeServerHelloMessage(f.Payload)
		if err != nil {
			return nil, err
		}
		if err := p.Session.UpdateNonce(msg.ServerNonce[:], session.Blake); err != nil {
			return nil, fmt.Errorf("protocol: handling ServerHelloMessage: %w", err)
		}
		return msg, nil

	case OpLoginSuccess:
		msg, err := DecodeLoginSuccessMessage(f.Payload)
		if err != nil {
			return nil, err
		}
		if err := p.Session.UpdateNonce(msg.EncryptNonce[:], session.Encrypt); err != nil {
			return nil, fmt.Errorf("protocol: handling LoginSuccessMessage: %w", err)
		}
		if err := p.Session.UpdateNonce(msg.DecryptNonce[:], session.Decrypt); err != nil {
			return nil, fmt.Errorf("protocol: handling LoginSuccessMessage: %w", err)
		}
		if err := p.Session.UpdateSharedKey(msg.DerivedKey[:]); err != nil {
			return nil, fmt.Errorf("protocol: handling LoginSuccessMessage: %w", err)
		}
		return msg, nil

	case OpShutdownInfo:
		return DecodeShutdownInfoMessage(f.Payload)

	case OpSpeedUpHeroUpgrade:
		return DecodeSpeedUpHeroUpgradeMessage(f.Payload)

	default:
		return nil, fmt.Errorf("protocol: unknown opcode %d", f.Opcode)
	}
}

// ReadAndHandle reads one frame from r and dispatches it via HandleFrame.
func (p *Processor) ReadAndHandle(r io.Reader) (any, error) {
	f, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return p.HandleFrame(f)
}

// SendEncrypted seals plaintext with the session's bulk-transport key and
// writes it to w as an opcode-tagged frame, once the session has reached
// SECOND_KEY (or the public-key box states, for pre-SECOND_KEY traffic).
func (p *Processor) SendEncrypted(w io.Writer, opcode uint16, plaintext []byte) error {
	ciphertext, err := p.Session.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("protocol: encrypting opcode %d: %w", opcode, err)
	}
	return WriteFrame(w, &Frame{Opcode: opcode, Payload: ciphertext})
}

// ReadEncrypted reads one frame from r and opens its payload with the
// session's bulk-transport key, returning the opcode and plaintext.
func (p *Processor) ReadEncrypted(r io.Reader) (uint16, []byte, error) {
	f, err := ReadFrame(r)
	if err != nil {
		return 0, nil, err
	}
	plaintext, err := p.Session.Decrypt(f.Payload)
	if err != nil {
		return 0, nil, fmt.Errorf("protocol: decrypting opcode %d: %w", f.Opcode, err)
	}
	return f.Opcode, plaintext, nil
}
