package live

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 5

	// MaxPayloadSize caps payloads at 1 MiB; swap payloads carry
	// rendered markup, which can exceed the usual control-frame sizes.
	MaxPayloadSize = 1 << 20
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHello FrameType = 0x00 // Client → Server: subscribe to a pending view
	FrameSwap  FrameType = 0x01 // Server → Client: replacement markup
	FramePing  FrameType = 0x02 // Heartbeat request
	FramePong  FrameType = 0x03 // Heartbeat response
	FrameError FrameType = 0x04 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameSwap:
		return "Swap"
	case FramePing:
		return "Ping"
	case FramePong:
		return "Pong"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge = errors.New("live: frame payload too large")
	ErrFrameTooShort = errors.New("live: frame shorter than header")
	ErrExpectedHello = errors.New("live: first frame must be hello")
)

// Frame is one protocol message, carried whole inside a WebSocket
// binary message.
//
// Wire format (5 bytes header + variable payload):
//
//	┌─────────────┬────────────────────────────────┐
//	│ Frame Type  │ Payload Length                 │
//	│ (1 byte)    │ (4 bytes, big-endian)          │
//	└─────────────┴────────────────────────────────┘
//	│  Payload (variable length)                   │
//	└──────────────────────────────────────────────┘
type Frame struct {
	Type    FrameType
	Payload []byte
}

// NewFrame creates a frame with the given type and payload.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{
		Type:    ft,
		Payload: payload,
	}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	length := len(f.Payload)
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(f.Type)
	buf[1] = byte(length >> 24)
	buf[2] = byte(length >> 16)
	buf[3] = byte(length >> 8)
	buf[4] = byte(length)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf
}

// DecodeFrame decodes a frame from bytes. The input must contain the
// header and the full payload.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, ErrFrameTooShort
	}

	ft := FrameType(data[0])
	length := int(data[1])<<24 | int(data[2])<<16 | int(data[3])<<8 | int(data[4])

	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	if len(data) < FrameHeaderSize+length {
		return nil, ErrFrameTooShort
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])

	return &Frame{
		Type:    ft,
		Payload: payload,
	}, nil
}

// Swap is the payload of a FrameSwap: the final outcome of a gated view
// and the markup that replaces its placeholder region.
type Swap struct {
	ViewID  string `json:"view_id"`
	Outcome string `json:"outcome"`
	HTML    string `json:"html"`
}

// EncodeSwap encodes a swap into a frame.
func EncodeSwap(s Swap) (*Frame, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding swap: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	return NewFrame(FrameSwap, payload), nil
}

// DecodeSwap decodes a swap from a frame payload.
func DecodeSwap(payload []byte) (Swap, error) {
	var s Swap
	if err := json.Unmarshal(payload, &s); err != nil {
		return Swap{}, fmt.Errorf("decoding swap: %w", err)
	}
	return s, nil
}
