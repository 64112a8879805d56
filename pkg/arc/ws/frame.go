package ws

import (
	"encoding/binary"
	"io"
)

// FrameReader parses WebSocket frames from an io.Reader.
type FrameReader struct {
	r      io.Reader
	header [MaxFrameHeaderSize]byte
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// ReadFrame reads and parses the next WebSocket frame. The payload is
// unmasked before it is returned.
func (fr *FrameReader) ReadFrame() (*Frame, error) {
	frame, err := fr.readHeader()
	if err != nil {
		return nil, err
	}

	if frame.Length > 0 {
		payload := make([]byte, frame.Length)
		if _, err := io.ReadFull(fr.r, payload); err != nil {
			return nil, err
		}
		if frame.Masked {
			maskBytes(payload, frame.MaskKey)
		}
		frame.Payload = payload
	}
	return frame, nil
}

// readHeader reads the fixed 2-byte prefix, the extended length, and the
// masking key, validating the frame against RFC 6455 as it goes.
func (fr *FrameReader) readHeader() (*Frame, error) {
	if _, err := io.ReadFull(fr.r, fr.header[:2]); err != nil {
		return nil, err
	}

	b0, b1 := fr.header[0], fr.header[1]
	frame := &Frame{
		Fin:    b0&finalBit != 0,
		RSV1:   b0&rsv1Bit != 0,
		RSV2:   b0&rsv2Bit != 0,
		RSV3:   b0&rsv3Bit != 0,
		Opcode: b0 & opcodeMask,
		Masked: b1&maskBit != 0,
	}
	declared := uint64(b1 & lengthMask)

	if err := frame.validate(declared); err != nil {
		return nil, err
	}

	// The 7-bit length field escapes to 16 or 64 bits via 126/127.
	offset := 2
	switch declared {
	case 126:
		if _, err := io.ReadFull(fr.r, fr.header[2:4]); err != nil {
			return nil, err
		}
		frame.Length = uint64(binary.BigEndian.Uint16(fr.header[2:4]))
		offset = 4
	case 127:
		if _, err := io.ReadFull(fr.r, fr.header[2:10]); err != nil {
			return nil, err
		}
		frame.Length = binary.BigEndian.Uint64(fr.header[2:10])
		offset = 10
		// RFC 6455 5.2: the most significant bit must be 0.
		if frame.Length&(1<<63) != 0 {
			return nil, ErrFrameTooLarge
		}
	default:
		frame.Length = declared
	}

	if frame.Masked {
		if _, err := io.ReadFull(fr.r, fr.header[offset:offset+4]); err != nil {
			return nil, err
		}
		copy(frame.MaskKey[:], fr.header[offset:offset+4])
	}
	return frame, nil
}

// validate rejects frames this codec never accepts, before any payload
// bytes are consumed. declared is the raw 7-bit length field.
func (f *Frame) validate(declared uint64) error {
	switch {
	case f.Opcode > OpcodePong:
		return ErrInvalidOpcode
	case f.Opcode > OpcodeBinary && f.Opcode < OpcodeClose:
		// Reserved non-control opcodes 0x3-0x7.
		return ErrInvalidOpcode
	case f.RSV1 || f.RSV2 || f.RSV3:
		// Extensions are rejected at the handshake, so no reserved bit may
		// ever be set (RFC 6455 5.2).
		return ErrReservedBitsSet
	}

	// Control frames must not be fragmented and carry at most 125 bytes
	// (RFC 6455 5.5).
	if f.IsControl() {
		if !f.Fin {
			return ErrFragmentedControl
		}
		if declared > MaxControlFramePayload {
			return ErrInvalidControlFrame
		}
	}
	return nil
}

// FrameWriter writes WebSocket frames with a reusable header buffer.
type FrameWriter struct {
	w      io.Writer
	header [MaxFrameHeaderSize]byte
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame writes a WebSocket frame. If maskKey is non-nil the payload is
// masked in place (required for client→server frames).
func (fw *FrameWriter) WriteFrame(opcode byte, fin bool, payload []byte, maskKey *[4]byte) error {
	b0 := opcode
	if fin {
		b0 |= finalBit
	}
	fw.header[0] = b0

	b1 := byte(0)
	if maskKey != nil {
		b1 |= maskBit
	}

	length := uint64(len(payload))
	offset := 2
	switch {
	case length <= 125:
		fw.header[1] = b1 | byte(length)
	case length <= 0xFFFF:
		fw.header[1] = b1 | 126
		binary.BigEndian.PutUint16(fw.header[2:4], uint16(length))
		offset = 4
	default:
		fw.header[1] = b1 | 127
		binary.BigEndian.PutUint64(fw.header[2:10], length)
		offset = 10
	}

	if maskKey != nil {
		copy(fw.header[offset:offset+4], maskKey[:])
		offset += 4
	}

	if _, err := fw.w.Write(fw.header[:offset]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if maskKey != nil {
			// Masks in place; the caller's buffer is modified.
			maskBytes(payload, *maskKey)
		}
		if _, err := fw.w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// WriteControlFrame writes a control frame (Close, Ping, Pong).
// Control frames must be ≤125 bytes and have FIN=1.
func (fw *FrameWriter) WriteControlFrame(opcode byte, payload []byte, maskKey *[4]byte) error {
	if len(payload) > MaxControlFramePayload {
		return ErrInvalidControlFrame
	}
	if opcode < OpcodeClose || opcode > OpcodePong {
		return ErrInvalidOpcode
	}
	return fw.WriteFrame(opcode, true, payload, maskKey)
}

// WriteClose writes a Close control frame with status code and reason.
func (fw *FrameWriter) WriteClose(code uint16, reason string, maskKey *[4]byte) error {
	var payload []byte
	if code != 0 {
		payload = make([]byte, 2+len(reason))
		binary.BigEndian.PutUint16(payload, code)
		copy(payload[2:], reason)
	}
	return fw.WriteControlFrame(OpcodeClose, payload, maskKey)
}
