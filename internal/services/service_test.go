package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"timeclock-backend/internal/database"
)

// setupTestDB creates a migrated SQLite database in a temp dir.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
