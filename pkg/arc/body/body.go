// Package body implements the pull-based byte-chunk stream used for HTTP
// request and response payloads. A body yields chunks until EOF; bodies are
// linear and consumed at most once.
package body

import (
	"errors"
	"io"
)

// chunkSize is the read granularity for stream-backed bodies.
const chunkSize = 4096

// ErrPayloadTooLarge is returned by a read that would push the cumulative
// body size past the configured maximum.
var ErrPayloadTooLarge = errors.New("body: payload too large")

// Body is a lazy sequence of byte chunks with an optional total size hint.
//
// ReadNext returns the next chunk, or (nil, io.EOF) once the body is
// exhausted. The returned slice is owned by the caller until the next
// ReadNext call. Implementations are not required to be restartable.
type Body interface {
	ReadNext() ([]byte, error)
	SizeHint() (int64, bool)
}

// Empty returns a finite body with no chunks and a known size of zero.
func Empty() Body {
	return &bytesBody{done: true}
}

// FromBytes returns a single-shot in-memory body. The size hint is known.
func FromBytes(data []byte) Body {
	return &bytesBody{data: data}
}

// FromString returns a single-shot in-memory body over s.
func FromString(s string) Body {
	return &bytesBody{data: []byte(s)}
}

type bytesBody struct {
	data []byte
	done bool
}

func (b *bytesBody) ReadNext() ([]byte, error) {
	if b.done {
		return nil, io.EOF
	}
	b.done = true
	if len(b.data) == 0 {
		return nil, io.EOF
	}
	return b.data, nil
}

func (b *bytesBody) SizeHint() (int64, bool) {
	return int64(len(b.data)), true
}

// FromReader wraps any pull-based byte reader as a body that reads ~4 KiB
// chunks until EOF. The size hint is unknown.
func FromReader(r io.Reader) Body {
	return &readerBody{r: r}
}

type readerBody struct {
	r   io.Reader
	err error
}

func (b *readerBody) ReadNext() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := b.r.Read(buf)
		if n > 0 {
			if err != nil && err != io.EOF {
				b.err = err
			} else if err == io.EOF {
				b.err = io.EOF
			}
			return buf[:n], nil
		}
		if err != nil {
			b.err = err
			return nil, err
		}
	}
}

func (b *readerBody) SizeHint() (int64, bool) {
	return 0, false
}

// ReadAll drains b and returns the concatenated chunks.
func ReadAll(b Body) ([]byte, error) {
	var out []byte
	for {
		chunk, err := b.ReadNext()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, chunk...)
	}
}

// Discard drains b, throwing the chunks away.
func Discard(b Body) error {
	for {
		_, err := b.ReadNext()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Reader adapts a Body to io.Reader for consumers that stream.
func Reader(b Body) io.Reader {
	return &bodyReader{body: b}
}

type bodyReader struct {
	body Body
	rest []byte
	err  error
}

func (r *bodyReader) Read(p []byte) (int, error) {
	for len(r.rest) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		chunk, err := r.body.ReadNext()
		if err != nil {
			r.err = err
			return 0, err
		}
		r.rest = chunk
	}
	n := copy(p, r.rest)
	r.rest = r.rest[n:]
	return n, nil
}
