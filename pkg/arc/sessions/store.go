package sessions

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no live session exists under an id.
var ErrNotFound = errors.New("sessions: session not found")

// Config controls session creation.
type Config struct {
	// TTL is the session lifetime. Zero means sessions do not expire.
	TTL time.Duration
}

// Store is the session persistence contract consumed by the middleware.
//
// LoadSession returns the live session stored under id, or ErrNotFound when
// the id is unknown or expired. SaveSession persists a session according to
// its status; a destroyed session is removed. DestroySession removes the
// session unconditionally.
type Store interface {
	LoadSession(id string, cfg Config) (*Session, error)
	SaveSession(session *Session) error
	DestroySession(session *Session) error
}

// MemoryStore keeps sessions in a mutex-guarded map. Expired sessions are
// dropped lazily on load.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// LoadSession implements Store.
func (m *MemoryStore) LoadSession(id string, _ Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if session.IsExpired(time.Now()) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	session.status = StatusNone
	return session, nil
}

// SaveSession implements Store.
func (m *MemoryStore) SaveSession(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch session.Status() {
	case StatusDestroyed:
		delete(m.sessions, session.ID())
	case StatusNew, StatusModified:
		m.sessions[session.ID()] = session
	}
	return nil
}

// DestroySession implements Store.
func (m *MemoryStore) DestroySession(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, session.ID())
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
