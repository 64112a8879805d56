package server

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/extensions"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// startServer runs a server on an ephemeral port and returns its address
// and a stop function.
func startServer(t *testing.T, srv *Server, handler http11.RequestHandler) (string, func()) {
	t.Helper()

	ready := make(chan net.Addr, 1)
	srv.OnReady(func(addr net.Addr) { ready <- addr })

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(handler)
	}()

	var addr net.Addr
	select {
	case addr = <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}

	stop := func() {
		srv.Handle().Signal.Shutdown()
		// The accept loop polls the signal between accepts; one throwaway
		// connection makes it notice.
		if conn, err := net.Dial("tcp", addr.String()); err == nil {
			conn.Close()
		}
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	}
	return addr.String(), stop
}

func roundTrip(t *testing.T, addr, rawRequest string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(rawRequest)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	data, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return string(data)
}

// TestServer_EndToEnd tests a full TCP request/response cycle with the Date
// policy disabled.
func TestServer_EndToEnd(t *testing.T) {
	srv := New("127.0.0.1:0").IncludeDateHeader(false).IncludeServerInfo(false)
	handler := http11.HandlerFunc(func(req *http11.Request) *http11.Response {
		return http11.NewResponse(http11.StatusOK, body.FromString("Hello World!"))
	})

	addr, stop := startServer(t, srv, handler)
	defer stop()

	got := roundTrip(t, addr, "GET / HTTP/1.1\r\nHost: x\r\n\r\n")
	want := "HTTP/1.1 200 OK\r\nContent-Length: 12\r\n\r\nHello World!"
	if got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
}

// TestServer_DateHeader tests the default Date policy over the wire.
func TestServer_DateHeader(t *testing.T) {
	srv := New("127.0.0.1:0")
	handler := http11.HandlerFunc(func(req *http11.Request) *http11.Response {
		return http11.NewResponse(http11.StatusNoContent, body.Empty())
	})

	addr, stop := startServer(t, srv, handler)
	defer stop()

	got := roundTrip(t, addr, "GET / HTTP/1.1\r\n\r\n")
	if !strings.Contains(got, "\r\nDate: ") {
		t.Errorf("Got %q, want a Date header", got)
	}
}

// TestServer_ConnInfo tests peer info injection.
func TestServer_ConnInfo(t *testing.T) {
	srv := New("127.0.0.1:0").IncludeConnInfo(true).IncludeDateHeader(false)
	handler := http11.HandlerFunc(func(req *http11.Request) *http11.Response {
		info, ok := extensions.Get[ConnInfo](req.Extensions)
		if !ok || info.RemoteAddr == nil {
			return http11.NewResponse(http11.StatusInternalServerError, body.Empty())
		}
		return http11.NewResponse(http11.StatusNoContent, body.Empty())
	})

	addr, stop := startServer(t, srv, handler)
	defer stop()

	got := roundTrip(t, addr, "GET / HTTP/1.1\r\n\r\n")
	if !strings.HasPrefix(got, "HTTP/1.1 204") {
		t.Errorf("Got %q", got)
	}
}

// TestServer_MaxBodySize tests the payload cap at the transport boundary.
func TestServer_MaxBodySize(t *testing.T) {
	srv := New("127.0.0.1:0").IncludeDateHeader(false).MaxBodySize(4)
	handler := http11.HandlerFunc(func(req *http11.Request) *http11.Response {
		if _, err := body.ReadAll(req.Body); err != nil {
			return http11.NewResponse(http11.StatusPayloadTooLarge, body.Empty())
		}
		return http11.NewResponse(http11.StatusOK, body.Empty())
	})

	addr, stop := startServer(t, srv, handler)
	defer stop()

	got := roundTrip(t, addr, "POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")
	if !strings.HasPrefix(got, "HTTP/1.1 413") {
		t.Errorf("Got %q", got)
	}
}

// TestSingleThreadedRuntime tests the inline runtime.
func TestSingleThreadedRuntime(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	signal := NewShutdownSignal()
	handler := http11.HandlerFunc(func(req *http11.Request) *http11.Response {
		return http11.NewResponse(http11.StatusOK, body.FromString("inline"))
	})

	done := make(chan error, 1)
	go func() {
		args := StartArgs{
			Listener: listener,
			Config:   Config{},
			Signal:   signal,
		}
		done <- SingleThreadedRuntime{}.Start(args, handler)
	}()

	got := roundTrip(t, listener.Addr().String(), "GET / HTTP/1.1\r\n\r\n")
	if !strings.HasSuffix(got, "inline") {
		t.Errorf("Got %q", got)
	}

	signal.Shutdown()
	if conn, err := net.Dial("tcp", listener.Addr().String()); err == nil {
		conn.Close()
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("runtime did not stop")
	}
	listener.Close()
}
