// Package protocol implements the v8 wire protocol: opcode-tagged framing,
// the handshake and gameplay message structs carried in frames, and the
// message processor that decodes a frame and drives the session state
// machine at the right protocol moments.
package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// Frame header layout: opcode (uint16) + length (uint32) + payload. Widened
// from the teacher's one-byte message type because v8 opcodes run past
// 20000.
const HeaderSize = 6

// MaxFrameSize bounds a single frame's payload, rejecting anything larger
// before it is ever allocated.
const MaxFrameSize = 1 << 20 // 1 MiB

var (
	// ErrFrameTooLarge indicates a frame's declared length exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("protocol: frame too large")
	// ErrMalformedFrame indicates a frame header or payload that could not
	// be parsed into its declared shape.
	ErrMalformedFrame = errors.New("protocol: malformed frame")
)

// Frame is the wire envelope every v8 message is carried in.
type Frame struct {
	Opcode  uint16
	Payload []byte
}

// Encode serializes a Frame to its wire bytes.
func (f *Frame) Encode() []byte {
	length := uint32(len(f.Payload))
	buf := make([]byte, HeaderSize+length)
	binary.BigEndian.PutUint16(buf[0:2], f.Opcode)
	binary.BigEndian.PutUint32(buf[2:6], length)
	copy(buf[HeaderSize:], f.Payload)
	return buf
}

// ReadFrame reads one Frame from r, rejecting a declared length over
// MaxFrameSize before allocating the payload buffer.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	opcode := binary.BigEndian.Uint16(header[0:2])
	length := binary.BigEndian.Uint32(header[2:6])

	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}

	return &Frame{Opcode: opcode, Payload: payload}, nil
}

// WriteFrame encodes f and writes it to w.
func WriteFrame(w io.Writer, f *Frame) error {
	_, err := w.Write(f.Encode())
	return err
}
