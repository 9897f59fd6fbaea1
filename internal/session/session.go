// Package session holds the signed-in user's identity on the client side of
// the backend API.
//
// A Session is passed explicitly to the components that need it (the result
// persister, the backend client). Holder is the single mutable slot set at
// login and cleared at logout.
package session

import (
	"sync"
	"time"
)

// Session is the identity returned by a successful login.
type Session struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session has an owner, a token and has not expired at now.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.UserID == "" || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Holder stores the current session. It is safe for concurrent use.
type Holder struct {
	mu      sync.RWMutex
	current *Session
	now     func() time.Time
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{now: time.Now}
}

// Set replaces the current session.
func (h *Holder) Set(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = &s
}

// Clear removes the current session.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
}

// Current returns a copy of the session, or nil when signed out or expired.
func (h *Holder) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.current.Valid(h.now()) {
		return nil
	}
	s := *h.current
	return &s
}
