// Package middleware carries the cross-cutting interceptors that consume
// the web pipeline: logging, panic recovery, timeouts, CORS, request ids,
// JWT auth, Prometheus metrics, and cookie-carried sessions.
package middleware

import (
	"io"
	"log"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// LoggerConfig defines configuration for the request logger.
type LoggerConfig struct {
	// Output receives one JSON line per request. Default: os.Stdout.
	Output io.Writer

	// SkipPaths are request paths that are not logged (e.g. /health).
	SkipPaths []string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{Output: os.Stdout}
}

type logLine struct {
	Time       string `json:"time"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
}

// Logger returns a middleware that logs each request as one structured JSON
// line: method, path, status, and duration.
//
// Output:
//
//	{"time":"2026-08-01T10:30:00Z","method":"GET","path":"/users","status":200,"duration_ms":15}
func Logger() web.Middleware {
	return LoggerWithConfig(DefaultLoggerConfig())
}

// LoggerWithConfig returns the request logger with custom configuration.
func LoggerWithConfig(config LoggerConfig) web.Middleware {
	if config.Output == nil {
		config.Output = os.Stdout
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

			start := time.Now()
			resp := next.Serve(req)

			line := logLine{
				Time:       start.UTC().Format(time.RFC3339),
				Method:     req.Method.String(),
				Path:       req.Path(),
				Status:     resp.Status.Code(),
				DurationMs: time.Since(start).Milliseconds(),
			}
			encoded, err := json.Marshal(line)
			if err != nil {
				log.Printf("middleware: failed to encode log line: %v", err)
				return resp
			}
			encoded = append(encoded, '\n')
			_, _ = config.Output.Write(encoded)
			return resp
		})
	}
}
