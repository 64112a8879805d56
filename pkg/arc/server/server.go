package server

import (
	"net"

	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// Handle controls a running server from outside the accept loop.
type Handle struct {
	Signal ShutdownSignal
}

// Server binds an address, applies the configuration, and runs a runtime
// over the accepted connections.
//
// Example:
//
//	srv := server.New(":8080").IncludeDateHeader(false)
//	err := srv.Start(app)
type Server struct {
	addr    string
	config  Config
	onReady func(addr net.Addr)
	handle  Handle
}

// New creates a server listening on addr with the default configuration.
func New(addr string) *Server {
	return &Server{
		addr:   addr,
		config: DefaultConfig(),
		handle: Handle{Signal: NewShutdownSignal()},
	}
}

// IncludeDateHeader toggles the Date response header policy.
func (s *Server) IncludeDateHeader(include bool) *Server {
	s.config.IncludeDateHeader = include
	return s
}

// MaxBodySize sets the cumulative request body cap in bytes. Zero or
// negative disables the cap.
func (s *Server) MaxBodySize(size int64) *Server {
	s.config.MaxBodySize = size
	return s
}

// IncludeConnInfo toggles peer info injection into request extensions.
func (s *Server) IncludeConnInfo(include bool) *Server {
	s.config.IncludeConnInfo = include
	return s
}

// IncludeServerInfo toggles config injection into request extensions.
func (s *Server) IncludeServerInfo(include bool) *Server {
	s.config.IncludeServerInfo = include
	return s
}

// Config replaces the whole configuration.
func (s *Server) Config(config Config) *Server {
	s.config = config
	return s
}

// OnReady registers a callback invoked with the bound address right after
// the listener is ready.
func (s *Server) OnReady(f func(addr net.Addr)) *Server {
	s.onReady = f
	return s
}

// Handle returns the control handle for stopping the server.
func (s *Server) Handle() Handle {
	return s.handle
}

// Start binds the address and serves with the default runtime.
func (s *Server) Start(handler http11.RequestHandler) error {
	return s.StartWith(DefaultRuntime(), handler)
}

// StartWith binds the address and serves with the given runtime.
func (s *Server) StartWith(rt Runtime, handler http11.RequestHandler) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	defer listener.Close()

	if s.onReady != nil {
		s.onReady(listener.Addr())
	}

	args := StartArgs{
		Listener: listener,
		Config:   s.config,
		Signal:   s.handle.Signal,
	}
	return rt.Start(args, handler)
}

// Serve runs the default runtime over an existing listener.
func (s *Server) Serve(listener net.Listener, handler http11.RequestHandler) error {
	if s.onReady != nil {
		s.onReady(listener.Addr())
	}
	args := StartArgs{
		Listener: listener,
		Config:   s.config,
		Signal:   s.handle.Signal,
	}
	return DefaultRuntime().Start(args, handler)
}
