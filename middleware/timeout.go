package middleware

import (
	"time"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// TimeoutConfig defines configuration for the timeout middleware.
type TimeoutConfig struct {
	// Timeout is the maximum duration for a request. Default: 30 seconds.
	Timeout time.Duration

	// SkipPaths are paths exempt from the timeout (long downloads, SSE).
	SkipPaths []string

	// Handler builds the timeout response. Default: plain 408.
	Handler web.Handler
}

// DefaultTimeoutConfig returns the default timeout configuration.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{Timeout: 30 * time.Second}
}

// Timeout returns a middleware that races the handler against a timer. On
// timeout it answers 408 Request Timeout; the handler goroutine is not
// canceled, its eventual result is discarded.
func Timeout(duration time.Duration) web.Middleware {
	return TimeoutWithConfig(TimeoutConfig{Timeout: duration})
}

// TimeoutWithConfig returns the timeout middleware with custom configuration.
func TimeoutWithConfig(config TimeoutConfig) web.Middleware {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skip[path] = true
	}

	return func(next web.Handler) web.Handler {
		return web.HandlerFunc(func(req *http11.Request) *http11.Response {
			if skip[req.Path()] {
				return next.Serve(req)
			}

			done := make(chan *http11.Response, 1)
			go func() {
				done <- next.Serve(req)
			}()

			timer := time.NewTimer(config.Timeout)
			defer timer.Stop()

			select {
			case resp := <-done:
				return resp
			case <-timer.C:
				if config.Handler != nil {
					return config.Handler.Serve(req)
				}
				return http11.NewResponse(http11.StatusRequestTimeout,
					body.FromString("Request Timeout"))
			}
		})
	}
}
