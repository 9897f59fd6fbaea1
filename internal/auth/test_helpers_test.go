package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
	_ "github.com/nerrad567/ecobuild-core/migrations" // registers the schema
)

// testParams keeps Argon2id cheap in tests.
var testParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

const testSecret = "test-secret-key-for-jwt-signing-32b"

// testDB creates a temporary SQLite database with every migration applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "auth-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db.DB
}

// testService wires a Service over a fresh database.
func testService(t *testing.T) *Service {
	t.Helper()
	db := testDB(t)
	return NewService(NewUserRepository(db), NewSessionRepository(db), ServiceConfig{
		Secret:     testSecret,
		SessionTTL: time.Hour,
		Params:     testParams,
	})
}
