package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"elearning/internal/adapters/storage"
	"elearning/internal/domain/apperr"
	domain "elearning/internal/domain/course"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new course store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Course by its ID.
// PRE: id > 0
// POST: Returns the course, or *apperr.NotFoundError if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Course, error) {
	var c domain.Course
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM courses WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, apperr.NotFound("course", id)
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("get course %d: %w", id, err)
	}
	return c, nil
}

// List returns every course ordered by name.
// POST: Returns courses sorted by name, then id
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description FROM courses ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a new course and returns its generated id.
// PRE: c has been validated
// POST: A row exists with the returned id
func (s *SQLiteStore) Create(ctx context.Context, c domain.Course) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO courses (name, description) VALUES (?, ?)", c.Name, c.Description)
	if err != nil {
		return 0, fmt.Errorf("insert course: %w", err)
	}
	return res.LastInsertId()
}

// Update overwrites name and description of an existing course.
// PRE: c has been validated, c.ID > 0
// POST: The row with c.ID carries the new values (no-op if absent)
func (s *SQLiteStore) Update(ctx context.Context, c domain.Course) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE courses SET name = ?, description = ? WHERE id = ?", c.Name, c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("update course %d: %w", c.ID, err)
	}
	return nil
}
