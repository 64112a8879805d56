package middleware

import (
	"log"
	"runtime/debug"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// Recovery returns a middleware that recovers from panics in the handler
// chain, logs the panic with its stack trace, and answers 500 so the worker
// keeps serving other connections.
func Recovery() web.Middleware {
	return func(next web.Handler) web.Handler {
		return web.HandlerFunc(func(req *http11.Request) (resp *http11.Response) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("middleware: panic serving %s %s: %v\n%s",
						req.Method, req.Path(), r, debug.Stack())
					resp = http11.NewResponse(http11.StatusInternalServerError,
						body.FromString("Internal Server Error"))
				}
			}()
			return next.Serve(req)
		})
	}
}
