// Package storagetest opens migrated throwaway databases for tests.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"elearning/internal/adapters/storage"
)

// Open creates a migrated SQLite database in t's temp dir, closed on cleanup.
// A file is used instead of :memory: so every pooled connection sees the same schema.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// MustExec runs a statement or fails the test. Returns the last insert id.
func MustExec(t testing.TB, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// MustCount runs a COUNT query or fails the test.
func MustCount(t testing.TB, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}
