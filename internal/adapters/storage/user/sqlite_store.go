package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"elearning/internal/adapters/storage"
	domain "elearning/internal/domain/user"
)

// ErrNotFound is returned when no user has the requested email.
var ErrNotFound = errors.New("user not found")

// SQLiteStore implements Store using SQLite. Built on a Querier so the
// enrollment transaction can run it against its *sql.Tx.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new user store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByEmail looks a user up by exact email.
// PRE: email is non-empty
// POST: Returns the user, or ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, full_name, email, phone FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Create inserts a user and returns the generated id.
// PRE: u has been validated; no user with u.Email exists
// POST: A row exists with the returned id
func (s *SQLiteStore) Create(ctx context.Context, u domain.User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (full_name, email, phone) VALUES (?, ?, ?)", u.FullName, u.Email, u.Phone)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}
