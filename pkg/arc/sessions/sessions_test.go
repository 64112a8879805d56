package sessions

import (
	"errors"
	"testing"
	"time"
)

// TestSession_StatusTransitions tests the lifecycle flag.
func TestSession_StatusTransitions(t *testing.T) {
	s := NewSession(time.Time{})
	if s.Status() != StatusNew {
		t.Errorf("Got %v, want StatusNew", s.Status())
	}

	// A new session stays new while values change.
	s.Set("user", "amy")
	if s.Status() != StatusNew {
		t.Errorf("Got %v, want StatusNew", s.Status())
	}

	s.Destroy()
	if s.Status() != StatusDestroyed {
		t.Errorf("Got %v, want StatusDestroyed", s.Status())
	}
}

// TestMemoryStore_LoadSave tests the store contract.
func TestMemoryStore_LoadSave(t *testing.T) {
	store := NewMemoryStore()

	s := NewSession(time.Time{})
	s.Set("count", 3)
	if err := store.SaveSession(s); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	loaded, err := store.LoadSession(s.ID(), Config{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded.Status() != StatusNone {
		t.Errorf("Got %v, want StatusNone after load", loaded.Status())
	}
	if v, _ := loaded.Get("count"); v != 3 {
		t.Errorf("Got %v", v)
	}

	loaded.Set("count", 4)
	if loaded.Status() != StatusModified {
		t.Errorf("Got %v, want StatusModified", loaded.Status())
	}

	if _, err := store.LoadSession("unknown", Config{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got %v, want ErrNotFound", err)
	}
}

// TestMemoryStore_Expiry tests lazy expiry on load.
func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()

	s := NewSession(time.Now().Add(-time.Minute))
	if err := store.SaveSession(s); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := store.LoadSession(s.ID(), Config{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got %v, want ErrNotFound for expired session", err)
	}
	if store.Len() != 0 {
		t.Errorf("Got %d stored sessions, want 0", store.Len())
	}
}

// TestMemoryStore_Destroy tests removal on save.
func TestMemoryStore_Destroy(t *testing.T) {
	store := NewMemoryStore()

	s := NewSession(time.Time{})
	store.SaveSession(s)

	s.Destroy()
	store.SaveSession(s)

	if _, err := store.LoadSession(s.ID(), Config{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Got %v, want ErrNotFound after destroy", err)
	}
}
