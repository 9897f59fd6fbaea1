package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
)

// SessionRepository defines persistence for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SQLiteSessionRepository implements SessionRepository using SQLite.
type SQLiteSessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new SQLite-backed session repository.
func NewSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db, now: time.Now}
}

// Create inserts a session. The ID and CreatedAt are set if empty.
func (r *SQLiteSessionRepository) Create(ctx context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = "ses-" + uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.UserID, database.FormatTime(s.CreatedAt), database.FormatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID, revoked or not.
func (r *SQLiteSessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	var createdAt, expiresAt string
	var revokedAt sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &createdAt, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if s.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if s.ExpiresAt, err = database.ParseTime(expiresAt); err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		t, err := database.ParseTime(revokedAt.String)
		if err != nil {
			return nil, err
		}
		s.RevokedAt = &t
	}
	return &s, nil
}

// Revoke marks a session as ended. Revoking an already-revoked session is a no-op.
func (r *SQLiteSessionRepository) Revoke(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`,
		database.FormatTime(r.now()), id,
	)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RevokeAllForUser ends every open session belonging to userID.
func (r *SQLiteSessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		database.FormatTime(r.now()), userID,
	)
	if err != nil {
		return fmt.Errorf("revoking user sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry has passed and returns how many were deleted.
func (r *SQLiteSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, database.FormatTime(r.now()))
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	return n, nil
}
