package auth

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Credential limits.
const (
	maxUsernameLength = 64

	// maxPasswordLength bounds the input fed to Argon2id.
	maxPasswordLength = 256
)

// Domain errors for the auth package.
var (
	// ErrUserNotFound is returned when no account matches a username or ID.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrIncorrectPassword is returned when the username exists but the password does not match.
	ErrIncorrectPassword = errors.New("auth: incorrect password")

	// ErrUsernameExists is returned when registering a username that is already taken.
	ErrUsernameExists = errors.New("auth: username already exists")

	// ErrInvalidUsername is returned when a username is blank, too long or contains control characters.
	ErrInvalidUsername = errors.New("auth: invalid username")

	// ErrInvalidPassword is returned when a password is empty or too long.
	ErrInvalidPassword = errors.New("auth: invalid password")

	// ErrTokenInvalid is returned when a session token fails signature, expiry or claim checks.
	ErrTokenInvalid = errors.New("auth: invalid token")

	// ErrSessionNotFound is returned when a token's session is unknown.
	ErrSessionNotFound = errors.New("auth: session not found")

	// ErrSessionRevoked is returned when a token's session was ended by logout.
	ErrSessionRevoked = errors.New("auth: session revoked")
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialised
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is a server-side record of one login, referenced by the token's sid claim.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session is neither revoked nor expired at now.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Principal is the identity established from a valid session token.
type Principal struct {
	UserID    string
	Username  string
	SessionID string
	ExpiresAt time.Time
}

// NormaliseUsername trims surrounding whitespace. Usernames are otherwise
// case-sensitive and matched exactly.
func NormaliseUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidateCredentials checks the shape of a username/password pair before it
// reaches the database or the hasher.
func ValidateCredentials(username, password string) error {
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return ErrInvalidUsername
	}
	for _, r := range username {
		if unicode.IsControl(r) {
			return ErrInvalidUsername
		}
	}
	if password == "" || len(password) > maxPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}
