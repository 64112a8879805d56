// Package sessions implements the session collaborator: owner-keyed,
// optionally expiring key-value records with a lifecycle status flag.
// The core never persists sessions; stores plug in behind the Store
// interface.
package sessions

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks what should happen to a session when it is saved.
type Status uint8

const (
	// StatusNone marks a loaded session that was not touched.
	StatusNone Status = iota

	// StatusNew marks a freshly created session that must be persisted and
	// announced to the client.
	StatusNew

	// StatusModified marks a session whose values changed.
	StatusModified

	// StatusDestroyed marks a session to be removed on save.
	StatusDestroyed
)

// Session is one owner-keyed record of values with an optional expiry.
type Session struct {
	id      string
	values  map[string]any
	expires time.Time // zero means no expiry
	status  Status
}

// NewSession creates a fresh session with a random id and the given expiry.
// A zero expiry means the session does not expire.
func NewSession(expires time.Time) *Session {
	return &Session{
		id:      uuid.NewString(),
		values:  make(map[string]any),
		expires: expires,
		status:  StatusNew,
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Status returns the lifecycle status.
func (s *Session) Status() Status {
	return s.status
}

// Expires returns the expiry time; the zero time means no expiry.
func (s *Session) Expires() time.Time {
	return s.expires
}

// IsExpired reports whether the session expired before now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.expires.IsZero() && s.expires.Before(now)
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string value stored under key, or "".
func (s *Session) GetString(key string) string {
	if v, ok := s.values[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// Set stores value under key and marks the session modified.
func (s *Session) Set(key string, value any) {
	s.values[key] = value
	if s.status != StatusNew && s.status != StatusDestroyed {
		s.status = StatusModified
	}
}

// Delete removes key and marks the session modified.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	if s.status != StatusNew && s.status != StatusDestroyed {
		s.status = StatusModified
	}
}

// Destroy marks the session for removal on save.
func (s *Session) Destroy() {
	s.status = StatusDestroyed
}
