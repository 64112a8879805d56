package server

import (
	"log"
	"net"
	"runtime"
	"sync/atomic"

	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// ShutdownSignal is a cooperative stop flag, polled by the accept loop
// between accepts.
type ShutdownSignal struct {
	stopped *atomic.Bool
}

// NewShutdownSignal creates an unset signal.
func NewShutdownSignal() ShutdownSignal {
	return ShutdownSignal{stopped: &atomic.Bool{}}
}

// Shutdown signals the accept loop to stop.
func (s ShutdownSignal) Shutdown() {
	s.stopped.Store(true)
}

// IsStopped reports whether shutdown was signaled.
func (s ShutdownSignal) IsStopped() bool {
	return s.stopped.Load()
}

// StartArgs carries what a runtime needs to serve: the listener, the server
// configuration, and the shutdown signal.
type StartArgs struct {
	Listener net.Listener
	Config   Config
	Signal   ShutdownSignal
}

// Runtime schedules accepted connections onto the protocol engine. The
// accept loop checks the shutdown signal between accepts and exits cleanly
// when it is set; accept errors propagate.
type Runtime interface {
	Start(args StartArgs, handler http11.RequestHandler) error
}

// PooledRuntime dispatches each accepted connection to a bounded worker
// pool. The default worker count is the available parallelism. With
// SpawnOnFull, a saturated pool spills connections onto fresh goroutines
// instead of queueing.
type PooledRuntime struct {
	// Workers is the pool size. Zero means runtime.NumCPU().
	Workers int

	// SpawnOnFull spills tasks onto fresh goroutines when the pool queue
	// is saturated.
	SpawnOnFull bool

	// Name names the pool for diagnostics.
	Name string
}

// Start implements Runtime.
func (r PooledRuntime) Start(args StartArgs, handler http11.RequestHandler) error {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	name := r.Name
	if name == "" {
		name = "arc-worker"
	}
	pool := NewPoolBuilder(workers).Name(name).SpawnOnFull(r.SpawnOnFull).Build()
	defer pool.Close()

	return acceptLoop(args, func(conn net.Conn) {
		_ = pool.Execute(func() {
			serveConn(conn, args.Config, handler)
		})
	})
}

// SingleThreadedRuntime processes connections inline, one request at a time.
type SingleThreadedRuntime struct{}

// Start implements Runtime.
func (SingleThreadedRuntime) Start(args StartArgs, handler http11.RequestHandler) error {
	return acceptLoop(args, func(conn net.Conn) {
		serveConn(conn, args.Config, handler)
	})
}

// DefaultRuntime returns the runtime used when none is chosen explicitly.
func DefaultRuntime() Runtime {
	return PooledRuntime{SpawnOnFull: true}
}

func acceptLoop(args StartArgs, dispatch func(conn net.Conn)) error {
	for {
		if args.Signal.IsStopped() {
			return nil
		}
		conn, err := args.Listener.Accept()
		if err != nil {
			if args.Signal.IsStopped() {
				return nil
			}
			return err
		}
		dispatch(conn)
	}
}

// serveConn runs the protocol engine over one connection and closes it.
func serveConn(netConn net.Conn, config Config, handler http11.RequestHandler) {
	conn := http11.NewConn(netConn)
	defer conn.Close()

	opts := http11.ServeOptions{
		IncludeDateHeader: config.IncludeDateHeader,
		MaxBodySize:       config.MaxBodySize,
	}
	if config.IncludeConnInfo {
		opts.ConnInfo = ConnInfo{
			LocalAddr:  netConn.LocalAddr(),
			RemoteAddr: netConn.RemoteAddr(),
		}
	}
	if config.IncludeServerInfo {
		opts.ServerInfo = config
	}

	if err := http11.ServeConn(conn, opts, handler); err != nil {
		log.Printf("server: connection error: %v", err)
	}
}
