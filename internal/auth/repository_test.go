package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{Username: "alice", PasswordHash: "$argon2id$fake"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == "" || user.ID[:4] != "usr-" {
		t.Errorf("ID = %q, want usr- prefix", user.ID)
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Username != "alice" || byID.PasswordHash != "$argon2id$fake" {
		t.Errorf("GetByID() = %+v", byID)
	}
	if !byID.CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", byID.CreatedAt, user.CreatedAt)
	}

	byName, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("GetByUsername() ID = %q, want %q", byName.ID, user.ID)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &User{Username: "bob", PasswordHash: "x"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := repo.Create(ctx, &User{Username: "bob", PasswordHash: "y"})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Create() duplicate error = %v, want ErrUsernameExists", err)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrUserNotFound", err)
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	ctx := context.Background()

	user := &User{Username: "carol", PasswordHash: "x"}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	sess := &Session{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	if err := sessions.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := sessions.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != user.ID || got.RevokedAt != nil {
		t.Errorf("Get() = %+v", got)
	}
	if !got.Active(time.Now()) {
		t.Error("fresh session should be active")
	}

	if err := sessions.Revoke(ctx, sess.ID); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	got, err = sessions.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() after revoke error = %v", err)
	}
	if got.RevokedAt == nil {
		t.Fatal("RevokedAt should be set after Revoke")
	}
	if got.Active(time.Now()) {
		t.Error("revoked session should not be active")
	}

	// Second revoke keeps the original timestamp.
	first := *got.RevokedAt
	if err := sessions.Revoke(ctx, sess.ID); err != nil {
		t.Fatalf("second Revoke() error = %v", err)
	}
	got, _ = sessions.Get(ctx, sess.ID) //nolint:errcheck // checked above
	if !got.RevokedAt.Equal(first) {
		t.Errorf("RevokedAt changed from %v to %v", first, *got.RevokedAt)
	}
}

func TestSessionRepository_RevokeMissing(t *testing.T) {
	sessions := NewSessionRepository(testDB(t))
	if err := sessions.Revoke(context.Background(), "ses-missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Revoke() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := sessions.Get(context.Background(), "ses-missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepository_DeleteExpiredAndRevokeAll(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	ctx := context.Background()

	user := &User{Username: "dave", PasswordHash: "x"}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	expired := &Session{UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	live := &Session{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	for _, s := range []*Session{expired, live} {
		if err := sessions.Create(ctx, s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	n, err := sessions.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", n)
	}
	if _, err := sessions.Get(ctx, expired.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session still present: %v", err)
	}

	if err := sessions.RevokeAllForUser(ctx, user.ID); err != nil {
		t.Fatalf("RevokeAllForUser() error = %v", err)
	}
	got, err := sessions.Get(ctx, live.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.RevokedAt == nil {
		t.Error("live session should be revoked")
	}
}
