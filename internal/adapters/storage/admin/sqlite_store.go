package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"elearning/internal/adapters/storage"
	domain "elearning/internal/domain/admin"
)

// ErrNotFound is returned when no admin has the requested username.
var ErrNotFound = errors.New("admin not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new admin store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves an Admin by username.
// PRE: username is non-empty
// POST: Returns the admin, or ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	var lockedUntil sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, full_name, failed_logins, locked_until FROM admins WHERE username = ?",
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FullName, &a.FailedLogins, &lockedUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, ErrNotFound
	}
	if err != nil {
		return domain.Admin{}, fmt.Errorf("get admin: %w", err)
	}
	if lockedUntil.Valid && lockedUntil.String != "" {
		a.LockedUntil, _ = time.Parse(time.RFC3339Nano, lockedUntil.String)
	}
	return a, nil
}

// Create inserts an admin and returns the generated id.
// PRE: a has been validated and carries a bcrypt hash
// POST: A row exists with the returned id
func (s *SQLiteStore) Create(ctx context.Context, a domain.Admin) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash, full_name) VALUES (?, ?, ?)",
		a.Username, a.PasswordHash, a.FullName)
	if err != nil {
		return 0, fmt.Errorf("insert admin: %w", err)
	}
	return res.LastInsertId()
}

// SaveLoginState persists the failed-login counter and lock.
// PRE: a.ID > 0
// POST: failed_logins and locked_until match a
func (s *SQLiteStore) SaveLoginState(ctx context.Context, a domain.Admin) error {
	var lockedUntil any
	if !a.LockedUntil.IsZero() {
		lockedUntil = a.LockedUntil.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE admins SET failed_logins = ?, locked_until = ? WHERE id = ?",
		a.FailedLogins, lockedUntil, a.ID)
	if err != nil {
		return fmt.Errorf("save admin login state: %w", err)
	}
	return nil
}

// Count returns the number of admins.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&n)
	return n, err
}
