package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// Claims is the verified JWT claim set placed in the request extensions.
type Claims struct {
	jwt.MapClaims
}

// JWTConfig defines configuration for bearer-token authentication.
type JWTConfig struct {
	// Secret verifies HMAC-signed tokens. Required.
	Secret []byte

	// SkipPaths are paths served without authentication.
	SkipPaths []string
}

// JWT returns a middleware that requires a valid HS256 bearer token on every
// request. Verified claims land in the request extensions as Claims.
func JWT(secret []byte) web.Middleware {
	return JWTWithConfig(JWTConfig{Secret: secret})
}

// JWTWithConfig returns the JWT middleware with custom configuration.
func JWTWithConfig(config JWTConfig) web.Middleware {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skip[path] = true
	}

	return func(next web.Handler) web.Handler {
		return web.HandlerFunc(func(req *http11.Request) *http11.Response {
			if skip[req.Path()] {
				return next.Serve(req)
			}

			authorization, ok := req.Headers.Get(http11.HeaderAuthorization)
			if !ok {
				return unauthorized("missing bearer token")
			}
			scheme, token, found := strings.Cut(authorization, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				return unauthorized("missing bearer token")
			}

			claims := jwt.MapClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				return config.Secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !parsed.Valid {
				return unauthorized("invalid bearer token")
			}

			req.Extensions.Insert(Claims{MapClaims: claims})
			return next.Serve(req)
		})
	}
}

func unauthorized(message string) *http11.Response {
	resp := http11.NewResponse(http11.StatusUnauthorized, body.FromString(message))
	resp.Headers.Set("WWW-Authenticate", "Bearer")
	return resp
}
