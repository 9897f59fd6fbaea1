package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ServiceConfig holds the signing and lifetime settings for issued sessions.
type ServiceConfig struct {
	Secret     string
	SessionTTL time.Duration
	Params     Params // zero value selects DefaultParams
}

// LoginResult is returned from a successful Login.
type LoginResult struct {
	User      *User
	SessionID string
	Token     string
	ExpiresAt time.Time
}

// Service implements registration, login and session validation on top of
// the user and session repositories.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   *Hasher
	secret   string
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates an auth service.
func NewService(users UserRepository, sessions SessionRepository, cfg ServiceConfig) *Service {
	params := cfg.Params
	if params == (Params{}) {
		params = DefaultParams
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   NewHasher(params),
		secret:   cfg.Secret,
		ttl:      cfg.SessionTTL,
		now:      time.Now,
	}
}

// Register creates an account.
//
// Parameters:
//   - ctx: Context for cancellation
//   - username: Desired username, surrounding whitespace is trimmed
//   - password: Plaintext password, hashed with Argon2id before storage
//
// Returns:
//   - *User: The created account
//   - error: ErrInvalidUsername, ErrInvalidPassword, ErrUsernameExists or a storage error
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	username = NormaliseUsername(username)
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and opens a new session.
//
// Returns ErrUserNotFound when the username is unknown and
// ErrIncorrectPassword when the password does not match. The two are
// reported separately because clients show different messages for them.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, NormaliseUsername(username))
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrIncorrectPassword
	}

	sess := &Session{
		UserID:    user.ID,
		CreatedAt: s.now().UTC(),
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	token, expires, err := IssueToken(user, sess.ID, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, SessionID: sess.ID, Token: token, ExpiresAt: expires}, nil
}

// Authenticate validates a bearer token and its backing session.
func (s *Service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
		return nil, err
	}
	if sess.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: session owner mismatch", ErrTokenInvalid)
	}
	if sess.RevokedAt != nil {
		return nil, ErrSessionRevoked
	}
	if !sess.Active(s.now()) {
		return nil, fmt.Errorf("%w: session expired", ErrTokenInvalid)
	}

	return &Principal{
		UserID:    claims.Subject,
		Username:  claims.Username,
		SessionID: claims.SessionID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session identified by sessionID.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// UserExists reports whether an account with the given ID exists.
func (s *Service) UserExists(ctx context.Context, id string) (bool, error) {
	_, err := s.users.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}
