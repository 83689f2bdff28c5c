package storage_test

import (
	"database/sql"
	"path/filepath"
	"sort"
	"testing"

	"elearning/internal/adapters/storage"
	"elearning/internal/adapters/storage/storagetest"
)

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var expectedTables = []string{
	"admins",
	"classes",
	"contacts",
	"course_videos",
	"courses",
	"enrollments",
	"outbox",
	"schema_migrations",
	"users",
}

// TestMigrateDB_Fresh verifies a new database ends up with every table at the latest version.
func TestMigrateDB_Fresh(t *testing.T) {
	db := storagetest.Open(t)

	got := getTableNames(t, db)
	if len(got) != len(expectedTables) {
		t.Fatalf("tables = %v, want %v", got, expectedTables)
	}
	for i := range got {
		if got[i] != expectedTables[i] {
			t.Errorf("table[%d] = %q, want %q", i, got[i], expectedTables[i])
		}
	}

	v, dirty, err := storage.SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if dirty {
		t.Error("schema should not be dirty after a clean migration")
	}
	if v != storage.LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", v, storage.LatestSchemaVersion())
	}
}

// TestMigrateDB_Idempotent verifies re-running migrations is a no-op.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := storagetest.Open(t)
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("second MigrateDB: %v", err)
	}
	if got := len(getTableNames(t, db)); got != len(expectedTables) {
		t.Errorf("table count = %d after re-migrate, want %d", got, len(expectedTables))
	}
}

// TestMigrateDB_DataSurvivesReopen verifies rows persist across process restarts.
func TestMigrateDB_DataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	storagetest.MustExec(t, db, "INSERT INTO courses (name, description) VALUES ('Go', 'Learn Go')")
	db.Close()

	db, err = storage.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB on reopen: %v", err)
	}
	if n := storagetest.MustCount(t, db, "SELECT COUNT(*) FROM courses"); n != 1 {
		t.Errorf("courses = %d, want 1", n)
	}
}

// TestSchemaVersion_Unmigrated verifies an empty database reports version 0.
func TestSchemaVersion_Unmigrated(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	v, _, err := storage.SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 0 {
		t.Errorf("version = %d, want 0", v)
	}
}

func TestLatestSchemaVersion(t *testing.T) {
	if got := storage.LatestSchemaVersion(); got != 2 {
		t.Errorf("LatestSchemaVersion = %d, want 2", got)
	}
}

// TestForeignKeysEnforced verifies the DSN turns foreign keys on.
func TestForeignKeysEnforced(t *testing.T) {
	db := storagetest.Open(t)
	_, err := db.Exec("INSERT INTO classes (course_id, name, class_date, class_time) VALUES (999, 'x', '2026-01-01', '10:00')")
	if err == nil {
		t.Fatal("expected foreign key violation for unknown course")
	}
}

// TestIsUniqueViolation verifies the duplicate signal is recognised and nothing else is.
func TestIsUniqueViolation(t *testing.T) {
	db := storagetest.Open(t)
	storagetest.MustExec(t, db, "INSERT INTO users (full_name, email, phone) VALUES ('A', 'a@example.com', '1')")

	_, err := db.Exec("INSERT INTO users (full_name, email, phone) VALUES ('B', 'a@example.com', '2')")
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !storage.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}

	_, err = db.Exec("INSERT INTO users (full_name, email) VALUES ('C', 'c@example.com')")
	if err == nil {
		t.Fatal("expected NOT NULL violation")
	}
	if storage.IsUniqueViolation(err) {
		t.Errorf("NOT NULL violation misreported as unique: %v", err)
	}
	if storage.IsUniqueViolation(sql.ErrNoRows) {
		t.Error("sql.ErrNoRows misreported as unique violation")
	}
}
