package middleware

import (
	"strconv"
	"strings"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// CORSConfig defines configuration for cross-origin resource sharing.
type CORSConfig struct {
	// AllowOrigins lists permitted origins. "*" allows any. Default: ["*"].
	AllowOrigins []string

	// AllowMethods lists permitted methods for preflight responses.
	AllowMethods []string

	// AllowHeaders lists permitted request headers for preflight responses.
	AllowHeaders []string

	// AllowCredentials adds Access-Control-Allow-Credentials: true.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits it.
	MaxAge int
}

// DefaultCORSConfig returns a permissive default configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}
}

// CORS returns a middleware answering preflight requests and stamping CORS
// headers onto responses for allowed origins.
func CORS() web.Middleware {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig returns the CORS middleware with custom configuration.
func CORSWithConfig(config CORSConfig) web.Middleware {
	allowAll := false
	allowed := make(map[string]bool, len(config.AllowOrigins))
	for _, origin := range config.AllowOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}
	methods := strings.Join(config.AllowMethods, ", ")
	headers := strings.Join(config.AllowHeaders, ", ")

	return func(next web.Handler) web.Handler {
		return web.HandlerFunc(func(req *http11.Request) *http11.Response {
			origin, hasOrigin := req.Headers.Get(http11.HeaderOrigin)
			if !hasOrigin {
				return next.Serve(req)
			}

			allowOrigin := ""
			switch {
			case allowAll:
				allowOrigin = "*"
			case allowed[origin]:
				allowOrigin = origin
			}
			if allowOrigin == "" {
				return next.Serve(req)
			}

			if req.Method.Equal(http11.MethodOptions) {
				resp := http11.NewResponse(http11.StatusNoContent, body.Empty())
				stampCORS(resp, allowOrigin, config)
				if methods != "" {
					resp.Headers.Set("Access-Control-Allow-Methods", methods)
				}
				if headers != "" {
					resp.Headers.Set("Access-Control-Allow-Headers", headers)
				}
				return resp
			}

			resp := next.Serve(req)
			stampCORS(resp, allowOrigin, config)
			return resp
		})
	}
}

func stampCORS(resp *http11.Response, origin string, config CORSConfig) {
	resp.Headers.Set("Access-Control-Allow-Origin", origin)
	if config.AllowCredentials {
		resp.Headers.Set("Access-Control-Allow-Credentials", "true")
	}
	if config.MaxAge > 0 {
		resp.Headers.Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
	}
}
