package middleware

import (
	"github.com/google/uuid"

	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// RequestID is the per-request identifier placed in the request extensions
// and echoed in the X-Request-Id response header.
type RequestID string

// RequestIDHeader is the header carrying the request id.
const RequestIDHeader = "X-Request-Id"

// WithRequestID returns a middleware that assigns each request a UUID,
// reusing the client-provided X-Request-Id when present.
func WithRequestID() web.Middleware {
	return func(next web.Handler) web.Handler {
		return web.HandlerFunc(func(req *http11.Request) *http11.Response {
			id, ok := req.Headers.Get(RequestIDHeader)
			if !ok {
				id = uuid.NewString()
			}
			req.Extensions.Insert(RequestID(id))

			resp := next.Serve(req)
			resp.Headers.Set(RequestIDHeader, id)
			return resp
		})
	}
}
