// Package server owns the listen socket: configuration, the shutdown
// signal, and the runtimes that schedule accepted connections onto the
// protocol engine.
package server

import "net"

// DefaultMaxBodySize is the default cumulative cap on request body bytes.
const DefaultMaxBodySize int64 = 64 << 20 // 64 MiB

// Config holds the server options. Each option is independently toggled.
type Config struct {
	// IncludeDateHeader injects a Date header on responses when absent.
	// Default: true.
	IncludeDateHeader bool

	// MaxBodySize caps the cumulative request body bytes. Zero or negative
	// disables the cap. Default: DefaultMaxBodySize.
	MaxBodySize int64

	// IncludeConnInfo puts peer/connection information into the request
	// extensions. Default: false.
	IncludeConnInfo bool

	// IncludeServerInfo puts a copy of this config into the request
	// extensions. Default: true.
	IncludeServerInfo bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		IncludeDateHeader: true,
		MaxBodySize:       DefaultMaxBodySize,
		IncludeConnInfo:   false,
		IncludeServerInfo: true,
	}
}

// ConnInfo describes the peer of one connection. It lands in the request
// extensions when IncludeConnInfo is set.
type ConnInfo struct {
	LocalAddr  net.Addr
	RemoteAddr net.Addr
}
