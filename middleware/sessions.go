package middleware

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/watt-toolkit/arc/pkg/arc/extensions"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/sessions"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// SessionsConfig defines configuration for the session provider.
type SessionsConfig struct {
	// CookieName carries the session id. Default: "session_id".
	CookieName string

	// TTL is the lifetime of new sessions. Zero means no expiry.
	TTL time.Duration

	// HTTPOnly marks the session cookie http-only. Default: true.
	HTTPOnly bool

	// Path scopes the session cookie. Default: "/".
	Path string
}

// DefaultSessionsConfig returns the default session configuration.
func DefaultSessionsConfig() SessionsConfig {
	return SessionsConfig{
		CookieName: "session_id",
		HTTPOnly:   true,
		Path:       "/",
	}
}

// Sessions returns a middleware that loads (or creates) the session named by
// the request's session cookie, places it in the request extensions, and
// saves it after the handler runs. New sessions receive a Set-Cookie header;
// destroyed sessions receive an expired one.
//
// Handlers reach the session through the extension bag:
//
//	session, _ := extensions.Get[*sessions.Session](req.Extensions)
func Sessions(store sessions.Store, config SessionsConfig) web.Middleware {
	if config.CookieName == "" {
		config.CookieName = "session_id"
	}
	if config.Path == "" {
		config.Path = "/"
	}
	storeConfig := sessions.Config{TTL: config.TTL}

	return func(next web.Handler) web.Handler {
		return web.HandlerFunc(func(req *http11.Request) *http11.Response {
			session := loadOrCreate(store, storeConfig, config, req)
			req.Extensions.Insert(session)

			resp := next.Serve(req)

			// The handler may have swapped the session (e.g. a fresh login).
			if current, ok := extensions.Get[*sessions.Session](req.Extensions); ok {
				session = current
			}
			if err := store.SaveSession(session); err != nil {
				log.Printf("middleware: failed to save session %s: %v", session.ID(), err)
				return resp
			}

			switch session.Status() {
			case sessions.StatusNew:
				resp.Headers.Append(http11.HeaderSetCookie, sessionCookie(config, session))
			case sessions.StatusDestroyed:
				resp.Headers.Append(http11.HeaderSetCookie, expiredCookie(config))
			}
			return resp
		})
	}
}

func loadOrCreate(store sessions.Store, storeConfig sessions.Config, config SessionsConfig, req *http11.Request) *sessions.Session {
	if id, ok := sessionIDFromCookies(req.Headers, config.CookieName); ok {
		if session, err := store.LoadSession(id, storeConfig); err == nil {
			return session
		}
	}
	var expires time.Time
	if config.TTL > 0 {
		expires = time.Now().Add(config.TTL)
	}
	return sessions.NewSession(expires)
}

// sessionIDFromCookies scans the Cookie header values. The header parser
// already split the cookie pairs on ';'.
func sessionIDFromCookies(headers *http11.Headers, name string) (string, bool) {
	for _, pair := range headers.GetAll(http11.HeaderCookie) {
		cookieName, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if found && cookieName == name {
			return value, true
		}
	}
	return "", false
}

func sessionCookie(config SessionsConfig, session *sessions.Session) string {
	var b strings.Builder
	b.WriteString(config.CookieName)
	b.WriteByte('=')
	b.WriteString(session.ID())
	b.WriteString("; Path=")
	b.WriteString(config.Path)
	if config.TTL > 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.FormatInt(int64(config.TTL/time.Second), 10))
	}
	if config.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	return b.String()
}

func expiredCookie(config SessionsConfig) string {
	return config.CookieName + "=; Path=" + config.Path + "; Max-Age=0"
}
