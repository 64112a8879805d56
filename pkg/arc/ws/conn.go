package ws

import (
	"encoding/binary"
	"sync"
	"unicode/utf8"

	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// MessageType identifies a received WebSocket message.
type MessageType byte

// Message types.
const (
	TextMessage   MessageType = OpcodeText
	BinaryMessage MessageType = OpcodeBinary
	CloseMessage  MessageType = OpcodeClose
	PingMessage   MessageType = OpcodePing
	PongMessage   MessageType = OpcodePong
)

// Message is one complete WebSocket message, with continuation fragments
// already coalesced.
type Message struct {
	Type MessageType
	Data []byte
}

// Conn is a message-level WebSocket connection over an upgraded stream.
// Reads must come from a single goroutine; writes are serialized by an
// internal mutex.
type Conn struct {
	stream *http11.Upgrade
	reader *FrameReader

	writeMu sync.Mutex
	writer  *FrameWriter

	closed bool
}

// NewConn wraps an upgraded stream as a WebSocket connection in server mode
// (frames written unmasked, incoming frames expected masked).
func NewConn(stream *http11.Upgrade) *Conn {
	return &Conn{
		stream: stream,
		reader: NewFrameReader(stream),
		writer: NewFrameWriter(stream),
	}
}

// ReadMessage reads the next complete message. Continuation frames are
// coalesced; control frames interleaved between fragments are surfaced as
// their own messages. Text messages are validated as UTF-8.
func (c *Conn) ReadMessage() (Message, error) {
	var assembled []byte
	var kind byte

	for {
		frame, err := c.reader.ReadFrame()
		if err != nil {
			return Message{}, err
		}

		if frame.IsControl() {
			return Message{Type: MessageType(frame.Opcode), Data: frame.Payload}, nil
		}

		switch frame.Opcode {
		case OpcodeContinuation:
			if kind == 0 {
				return Message{}, ErrProtocolViolation
			}
		case OpcodeText, OpcodeBinary:
			if kind != 0 {
				return Message{}, ErrProtocolViolation
			}
			kind = frame.Opcode
		}

		assembled = append(assembled, frame.Payload...)
		if frame.Fin {
			if kind == OpcodeText && !utf8.Valid(assembled) {
				return Message{}, ErrInvalidUTF8
			}
			return Message{Type: MessageType(kind), Data: assembled}, nil
		}
	}
}

// WriteText writes a text message.
func (c *Conn) WriteText(data string) error {
	return c.write(OpcodeText, []byte(data))
}

// WriteBinary writes a binary message.
func (c *Conn) WriteBinary(data []byte) error {
	return c.write(OpcodeBinary, data)
}

// WritePong answers a ping with its payload echoed back.
func (c *Conn) WritePong(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writer.WriteControlFrame(OpcodePong, payload, nil)
}

// WritePing sends a ping frame.
func (c *Conn) WritePing(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writer.WriteControlFrame(OpcodePing, payload, nil)
}

func (c *Conn) write(opcode byte, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	return c.writer.WriteFrame(opcode, true, data, nil)
}

// Close sends a Close frame with the given status code and reason, then
// closes the underlying stream.
func (c *Conn) Close(code uint16, reason string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.writer.WriteClose(code, reason, nil)
	return c.stream.Close()
}

// CloseCode extracts the status code from a Close message payload.
// Returns CloseNormalClosure for an empty payload.
func CloseCode(m Message) uint16 {
	if m.Type != CloseMessage || len(m.Data) < 2 {
		return CloseNormalClosure
	}
	return binary.BigEndian.Uint16(m.Data[:2])
}
