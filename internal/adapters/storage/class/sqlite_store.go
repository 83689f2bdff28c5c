package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"elearning/internal/adapters/storage"
	"elearning/internal/domain/apperr"
	domain "elearning/internal/domain/class"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new class store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetDetail retrieves a class joined with its course name.
// PRE: id > 0
// POST: Returns the class, or *apperr.NotFoundError if absent
func (s *SQLiteStore) GetDetail(ctx context.Context, id int64) (domain.Detail, error) {
	var d domain.Detail
	err := s.db.QueryRowContext(ctx, `
		SELECT cl.id, cl.course_id, cl.name, cl.class_date, cl.class_time, cl.link, co.name
		FROM classes cl
		JOIN courses co ON co.id = cl.course_id
		WHERE cl.id = ?`, id,
	).Scan(&d.ID, &d.CourseID, &d.Name, &d.Date, &d.Time, &d.Link, &d.CourseName)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Detail{}, apperr.NotFound("class", id)
	}
	if err != nil {
		return domain.Detail{}, fmt.Errorf("get class %d: %w", id, err)
	}
	return d, nil
}

// Create inserts a class under its course and returns the generated id.
// PRE: c has passed ValidateNew
// POST: A row exists with the returned id
func (s *SQLiteStore) Create(ctx context.Context, c domain.Class) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO classes (course_id, name, class_date, class_time, link) VALUES (?, ?, ?, ?, ?)",
		c.CourseID, c.Name, c.Date, c.Time, c.Link)
	if err != nil {
		return 0, fmt.Errorf("insert class: %w", err)
	}
	return res.LastInsertId()
}

// Update overwrites the editable fields of a class. The owning course never changes.
// PRE: c has passed Validate, c.ID > 0
// POST: The row with c.ID carries the new values (no-op if absent)
func (s *SQLiteStore) Update(ctx context.Context, c domain.Class) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE classes SET name = ?, class_date = ?, class_time = ?, link = ? WHERE id = ?",
		c.Name, c.Date, c.Time, c.Link, c.ID)
	if err != nil {
		return fmt.Errorf("update class %d: %w", c.ID, err)
	}
	return nil
}

// ListCatalog returns every course outer-joined with its classes.
// POST: rows ordered by course name, class date, class time; a course without
// classes appears once with a nil Class
func (s *SQLiteStore) ListCatalog(ctx context.Context) ([]domain.CatalogRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT co.id, co.name, co.description,
		       cl.id, cl.name, cl.class_date, cl.class_time, cl.link
		FROM courses co
		LEFT JOIN classes cl ON cl.course_id = co.id
		ORDER BY co.name, co.id, cl.class_date, cl.class_time, cl.id`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var out []domain.CatalogRow
	for rows.Next() {
		var r domain.CatalogRow
		var classID sql.NullInt64
		var name, date, tm, link sql.NullString
		if err := rows.Scan(&r.CourseID, &r.CourseName, &r.CourseDescription,
			&classID, &name, &date, &tm, &link); err != nil {
			return nil, err
		}
		if classID.Valid {
			r.Class = &domain.Class{
				ID:       classID.Int64,
				CourseID: r.CourseID,
				Name:     name.String,
				Date:     date.String,
				Time:     tm.String,
				Link:     link.String,
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
