// Package session tracks walkthrough sessions. Each client holds an opaque
// token in a cookie; the store keeps the active flag and expires it after a
// period of inactivity, at which point the client must start (or continue)
// a session again.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const CookieName = "stoka_session"

type Session struct {
	Token    string
	LastSeen time.Time
}

type Store struct {
	mu      sync.Mutex
	timeout time.Duration
	items   map[string]*Session

	now func() time.Time // swapped in tests
}

func NewStore(timeout time.Duration) *Store {
	return &Store{
		timeout: timeout,
		items:   make(map[string]*Session),
		now:     time.Now,
	}
}

// Begin creates a fresh session and returns it.
func (s *Store) Begin() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{
		Token:    uuid.NewString(),
		LastSeen: s.now(),
	}
	s.items[sess.Token] = sess
	return sess
}

// Active reports whether the token names a live session. An expired
// session is dropped on sight.
func (s *Store) Active(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[token]
	if !ok {
		return false
	}
	if s.now().Sub(sess.LastSeen) > s.timeout {
		delete(s.items, token)
		return false
	}
	return true
}

// Touch refreshes the inactivity clock for a live session.
func (s *Store) Touch(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[token]
	if !ok {
		return false
	}
	if s.now().Sub(sess.LastSeen) > s.timeout {
		delete(s.items, token)
		return false
	}
	sess.LastSeen = s.now()
	return true
}

// Touching wraps a handler so any request carrying a session cookie keeps
// that session alive.
func (s *Store) Touching(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(CookieName); err == nil {
			s.Touch(cookie.Value)
		}
		next(w, r)
	}
}
