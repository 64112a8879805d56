package http11

import (
	"net"
	"sync/atomic"
)

// Conn is an opaque, cloneable, bidirectional byte stream. TryClone yields an
// independent handle over the same underlying stream so the request body can
// keep reading while the response writer serializes concurrently.
type Conn interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	TryClone() (Conn, error)
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// sharedConn reference-counts handles over one net.Conn. The underlying
// stream closes when the last handle does, mirroring descriptor duplication.
type sharedConn struct {
	conn net.Conn
	refs *atomic.Int32
}

// NewConn wraps a net.Conn as a cloneable Conn.
func NewConn(c net.Conn) Conn {
	refs := &atomic.Int32{}
	refs.Store(1)
	return &sharedConn{conn: c, refs: refs}
}

func (s *sharedConn) Read(p []byte) (int, error) {
	return s.conn.Read(p)
}

func (s *sharedConn) Write(p []byte) (int, error) {
	return s.conn.Write(p)
}

func (s *sharedConn) Close() error {
	if s.refs.Add(-1) == 0 {
		return s.conn.Close()
	}
	return nil
}

func (s *sharedConn) TryClone() (Conn, error) {
	if s.refs.Load() <= 0 {
		return nil, ErrConnectionClosed
	}
	s.refs.Add(1)
	return &sharedConn{conn: s.conn, refs: s.refs}, nil
}

func (s *sharedConn) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *sharedConn) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}
