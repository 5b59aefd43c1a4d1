package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		clock_in TIMESTAMP NOT NULL,
		clock_out TIMESTAMP,
		image1 TEXT NOT NULL,
		image2 TEXT,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	-- At most one open session per user, enforced by the store so that two
	-- racing clock-in requests cannot both insert.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_open_session
		ON attendance(user_id) WHERE clock_out IS NULL;

	CREATE INDEX IF NOT EXISTS idx_attendance_user_clock_in
		ON attendance(user_id, clock_in);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
