package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/watt-toolkit/arc/pkg/arc/extensions"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// TestJWT tests bearer-token verification and claim injection.
func TestJWT(t *testing.T) {
	secret := []byte("test-secret")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "amy",
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var subject string
	h := JWT(secret)(web.HandlerFunc(func(req *http11.Request) *http11.Response {
		claims, _ := extensions.Get[Claims](req.Extensions)
		subject, _ = claims.MapClaims["sub"].(string)
		return http11.TextResponse(http11.StatusOK, "ok")
	}))

	// No token -> 401.
	resp := h.Serve(testRequest(t, "/private"))
	if resp.Status != http11.StatusUnauthorized {
		t.Errorf("Got %v, want 401", resp.Status)
	}

	// Garbage token -> 401.
	req := testRequest(t, "/private")
	req.Headers.Set(http11.HeaderAuthorization, "Bearer not.a.token")
	if resp := h.Serve(req); resp.Status != http11.StatusUnauthorized {
		t.Errorf("Got %v, want 401", resp.Status)
	}

	// Valid token -> handler runs with claims.
	req = testRequest(t, "/private")
	req.Headers.Set(http11.HeaderAuthorization, "Bearer "+token)
	if resp := h.Serve(req); resp.Status != http11.StatusOK {
		t.Errorf("Got %v, want 200", resp.Status)
	}
	if subject != "amy" {
		t.Errorf("Got sub=%q", subject)
	}

	// Skip paths bypass authentication.
	skipping := JWTWithConfig(JWTConfig{Secret: secret, SkipPaths: []string{"/public"}})(okHandler)
	if resp := skipping.Serve(testRequest(t, "/public")); resp.Status != http11.StatusOK {
		t.Errorf("Got %v, want 200 for skipped path", resp.Status)
	}
}
