package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/ecobuild-core/internal/auth"
)

// ticketTTL is how long a WebSocket ticket is valid.
const ticketTTL = 60 * time.Second

// Messages of the account endpoints. Clients show them verbatim.
const (
	msgUserCreated       = "User created"
	msgUserExists        = "User already exists"
	msgLoginSuccessful   = "Login successful"
	msgUserNotFound      = "User not found"
	msgIncorrectPassword = "Incorrect password"
	msgLoggedOut         = "Logged out"
	msgInvalidUsername   = "Username must be 1 to 64 characters"
	msgInvalidPassword   = "Password must be 1 to 256 bytes"
)

// credentialsRequest is the request body for POST /register and POST /login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /login.
type loginResponse struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// handleRegister creates an account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUsernameExists):
		writeBadRequest(w, msgUserExists)
		return
	case errors.Is(err, auth.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, msgInvalidUsername)
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, msgInvalidPassword)
		return
	default:
		s.logger.Error("register failed", "error", err)
		writeInternalError(w, "Failed to create user")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": msgUserCreated,
		"userId":  user.ID,
	})
}

// handleLogin verifies credentials and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUserNotFound):
		writeNotFound(w, msgUserNotFound)
		return
	case errors.Is(err, auth.ErrIncorrectPassword):
		writeUnauthorized(w, msgIncorrectPassword)
		return
	default:
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:   msgLoginSuccessful,
		UserID:    result.User.ID,
		Username:  result.User.Username,
		Token:     result.Token,
		ExpiresIn: int(time.Until(result.ExpiresAt).Seconds()),
	})
}

// handleLogout revokes the caller's session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	if err := s.auth.Logout(r.Context(), p.SessionID); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
		s.logger.Error("logout failed", "error", err, "user_id", p.UserID)
		writeInternalError(w, "Failed to log out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msgLoggedOut})
}

// ─── WebSocket tickets ─────────────────────────────────────────────

// ticketStore holds pending WebSocket authentication tickets.
// Tickets are single-use and expire after ticketTTL.
type ticketStore struct {
	tickets map[string]ticketEntry
	mu      sync.Mutex
	now     func() time.Time
}

type ticketEntry struct {
	userID    string
	expiresAt time.Time
}

func newTicketStore() *ticketStore {
	return &ticketStore{tickets: make(map[string]ticketEntry), now: time.Now}
}

// issue creates a ticket for userID.
func (t *ticketStore) issue(userID string) string {
	ticket := generateTicket()
	t.mu.Lock()
	t.tickets[ticket] = ticketEntry{userID: userID, expiresAt: t.now().Add(ticketTTL)}
	t.mu.Unlock()
	return ticket
}

// consume checks a ticket and removes it (single-use).
func (t *ticketStore) consume(ticket string) (ticketEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.tickets[ticket]
	if !ok {
		return ticketEntry{}, false
	}
	delete(t.tickets, ticket)

	if !t.now().Before(entry.expiresAt) {
		return ticketEntry{}, false
	}
	return entry, true
}

// sweep removes expired tickets.
func (t *ticketStore) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for ticket, entry := range t.tickets {
		if !now.Before(entry.expiresAt) {
			delete(t.tickets, ticket)
		}
	}
}

// handleWSTicket generates a single-use WebSocket authentication ticket.
// The client uses this ticket to authenticate the WebSocket connection
// without exposing the token in the URL.
func (s *Server) handleWSTicket(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ticket":    s.tickets.issue(p.UserID),
		"expiresIn": int(ticketTTL.Seconds()),
	})
}

// ticketBytes is the number of random bytes used for WebSocket tickets.
const ticketBytes = 32

// generateTicket creates a cryptographically random ticket string.
func generateTicket() string {
	b := make([]byte, ticketBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}
