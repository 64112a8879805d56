package ws

import (
	"encoding/base64"
	"log"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/extensions"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// Upgrade validates a WebSocket opening handshake (RFC 6455 Section 4) and
// takes ownership of the pending-upgrade rendezvous. Use it as a handler
// argument and call Accept to finish the handshake:
//
//	app.Get("/ws", web.Fn1(func(u ws.Upgrade) any {
//	    return u.Accept(func(conn *ws.Conn) {
//	        // conn owns the raw stream
//	    })
//	}))
//
// Rejections: 405 when the method is not GET, 400 when the Upgrade,
// Connection, Sec-WebSocket-Key, or Sec-WebSocket-Version headers are
// missing or invalid. Subprotocols and extensions are unsupported and
// rejected.
type Upgrade struct {
	key     string
	pending *http11.PendingUpgrade
}

// ExtractRef implements web.RefExtractor.
func (u *Upgrade) ExtractRef(req *http11.Request) error {
	if !req.Method.Equal(http11.MethodGet) {
		return web.Reject(http11.StatusMethodNotAllowed, "websocket handshake requires GET")
	}

	// RFC 6455 4.2.1: the upgrade is valid iff both the Upgrade and
	// Connection headers are present with the expected tokens.
	if !req.Headers.ContainsToken(http11.HeaderUpgrade, "websocket") {
		return web.Reject(http11.StatusBadRequest, "missing Upgrade: websocket")
	}
	if !req.Headers.ContainsToken(http11.HeaderConnection, "upgrade") {
		return web.Reject(http11.StatusBadRequest, "missing Connection: Upgrade")
	}

	if version := req.Headers.GetOr(http11.HeaderSecWebSocketVer, ""); version != "13" {
		return web.Reject(http11.StatusBadRequest, "unsupported Sec-WebSocket-Version")
	}

	key, ok := req.Headers.Get(http11.HeaderSecWebSocketKey)
	if !ok {
		return web.Reject(http11.StatusBadRequest, "missing Sec-WebSocket-Key")
	}
	// The key must be the base64 form of a 16-byte nonce: 24 ASCII chars.
	if len(key) != 24 {
		return web.Reject(http11.StatusBadRequest, "invalid Sec-WebSocket-Key")
	}
	if raw, err := base64.StdEncoding.DecodeString(key); err != nil || len(raw) != 16 {
		return web.Reject(http11.StatusBadRequest, "invalid Sec-WebSocket-Key")
	}

	if req.Headers.Has("Sec-WebSocket-Protocol") {
		return web.Reject(http11.StatusBadRequest, "subprotocols are not supported")
	}
	if req.Headers.Has("Sec-WebSocket-Extensions") {
		return web.Reject(http11.StatusBadRequest, "extensions are not supported")
	}

	pending, ok := extensions.Take[*http11.PendingUpgrade](req.Extensions)
	if !ok {
		return web.Reject(http11.StatusBadRequest, "connection cannot be upgraded")
	}

	u.key = key
	u.pending = pending
	return nil
}

// ExtractBody implements web.BodyExtractor.
func (u *Upgrade) ExtractBody(req *http11.Request) error { return u.ExtractRef(req) }

// Accept finishes the handshake: it spawns a goroutine that waits for the
// response writer to hand over the raw stream and then runs serve with the
// connection, and returns the 101 Switching Protocols response.
//
// The serve callback owns the stream and must close the connection.
func (u *Upgrade) Accept(serve func(conn *Conn)) *http11.Response {
	pending := u.pending
	go func() {
		upgraded, err := pending.Wait()
		if err != nil {
			log.Printf("ws: upgrade failed: %v", err)
			return
		}
		serve(NewConn(upgraded))
	}()

	resp := http11.NewResponse(http11.StatusSwitchingProtocols, body.Empty())
	resp.Headers.Set(http11.HeaderUpgrade, "websocket")
	resp.Headers.Set(http11.HeaderConnection, "upgrade")
	resp.Headers.Set(http11.HeaderSecWebSocketAccept, ComputeAcceptKey(u.key))
	return resp
}
