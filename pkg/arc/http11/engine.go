// Package http11 implements the HTTP/1.1 wire protocol engine: framing,
// header parsing, request/response serialization, and connection upgrade
// handoff.
package http11

import (
	"bufio"
	"errors"

	"github.com/watt-toolkit/arc/pkg/arc/body"
)

// RequestHandler produces a response for one parsed request.
type RequestHandler interface {
	Handle(req *Request) *Response
}

// HandlerFunc adapts a plain function to RequestHandler.
type HandlerFunc func(req *Request) *Response

// Handle calls f(req).
func (f HandlerFunc) Handle(req *Request) *Response {
	return f(req)
}

// ServeOptions configures one protocol engine pass over a connection.
type ServeOptions struct {
	// IncludeDateHeader injects Date on responses when absent.
	IncludeDateHeader bool

	// MaxBodySize caps the cumulative request body bytes. Zero or negative
	// disables the cap.
	MaxBodySize int64

	// ConnInfo, when non-nil, is inserted into the request extensions.
	ConnInfo any

	// ServerInfo, when non-nil, is inserted into the request extensions.
	ServerInfo any
}

// ServeConn services one request/response exchange on conn: parse, enrich
// extensions, dispatch, serialize, and finally hand the stream to a pending
// upgrade waiter. The caller retains ownership of conn and closes it.
//
// Parse failures before dispatch yield a minimal 4xx response on the wire and
// return the parse error for logging.
func ServeConn(conn Conn, opts ServeOptions, handler RequestHandler) error {
	reader := bufio.NewReader(conn)

	req, err := ParseRequest(reader, opts.MaxBodySize)
	if err != nil {
		writeMinimalResponse(conn, parseErrorStatus(err))
		return err
	}

	if opts.ConnInfo != nil {
		req.Extensions.Insert(opts.ConnInfo)
	}
	if opts.ServerInfo != nil {
		req.Extensions.Insert(opts.ServerInfo)
	}

	// Install the upgrade rendezvous when the client asked for one. The
	// handler side takes the PendingUpgrade out of the extensions; the
	// notifier stays here until the response is on the wire.
	var notifier *UpgradeNotifier
	if req.Headers.ContainsToken(HeaderConnection, "upgrade") {
		var pending *PendingUpgrade
		notifier, pending = NewPendingUpgrade()
		req.Extensions.Insert(pending)
	}

	resp := handler.Handle(req)
	if resp == nil {
		resp = NewResponse(StatusInternalServerError, body.Empty())
	}

	policy := WritePolicy{
		IncludeDateHeader: opts.IncludeDateHeader,
		DiscardBody:       req.Method.Equal(MethodHead),
	}
	writeErr := WriteResponse(conn, resp, policy)

	if notifier != nil {
		if writeErr == nil {
			if clone, err := conn.TryClone(); err == nil {
				notifier.Notify(clone)
			} else {
				notifier.Abandon()
			}
		} else {
			notifier.Abandon()
		}
	}
	return writeErr
}

// parseErrorStatus maps a transport parse error to the minimal response
// emitted before dispatch.
func parseErrorStatus(err error) Status {
	switch {
	case errors.Is(err, body.ErrPayloadTooLarge):
		return StatusPayloadTooLarge
	case errors.Is(err, ErrHeadersTooLarge):
		return StatusURITooLong
	case errors.Is(err, ErrUnsupportedVersion):
		return StatusBadRequest
	case errors.Is(err, ErrUnknownTransferEncoding):
		return StatusBadRequest
	default:
		return StatusBadRequest
	}
}

func writeMinimalResponse(conn Conn, status Status) {
	resp := NewResponse(status, body.Empty())
	resp.Headers.Set(HeaderConnection, "close")
	_ = WriteResponse(conn, resp, WritePolicy{})
}
