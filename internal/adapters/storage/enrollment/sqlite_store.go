package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elearning/internal/adapters/storage"
	userStore "elearning/internal/adapters/storage/user"
	"elearning/internal/domain/apperr"
	domain "elearning/internal/domain/enrollment"
	userDomain "elearning/internal/domain/user"
)

const dateLayout = "2006-01-02T15:04:05Z"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new enrollment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Enroll runs the find-or-create-user and insert-enrollment steps in one transaction.
// PRE: u has been validated; classID refers to an existing class
// POST: On success both rows are committed. On any error nothing from this call persists.
// INVARIANT: (user_id, class_id) stays unique; only the enrollment insert's
// unique violation is reported as a duplicate
func (s *SQLiteStore) Enroll(ctx context.Context, classID int64, u userDomain.User, now time.Time) (Outcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("begin enrollment: %w", err)
	}
	defer tx.Rollback()

	users := userStore.NewSQLiteStore(tx)
	var out Outcome

	existing, err := users.GetByEmail(ctx, u.Email)
	switch {
	case err == nil:
		out.UserID = existing.ID
	case errors.Is(err, userStore.ErrNotFound):
		out.UserID, err = users.Create(ctx, u)
		if err != nil {
			return Outcome{}, err
		}
		out.UserCreated = true
	default:
		return Outcome{}, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO enrollments (user_id, class_id, enrollment_date) VALUES (?, ?, ?)",
		out.UserID, classID, now.UTC().Format(dateLayout))
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return Outcome{}, apperr.ErrDuplicateEnrollment
		}
		return Outcome{}, fmt.Errorf("insert enrollment: %w", err)
	}
	if out.EnrollmentID, err = res.LastInsertId(); err != nil {
		return Outcome{}, err
	}

	if err := tx.Commit(); err != nil {
		return Outcome{}, fmt.Errorf("commit enrollment: %w", err)
	}
	return out, nil
}

// ListRoster returns the students enrolled in classID.
// POST: entries ordered by enrollment date, then id
func (s *SQLiteStore) ListRoster(ctx context.Context, classID int64) ([]domain.RosterEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.full_name, u.email, u.phone, e.enrollment_date
		FROM enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.class_id = ?
		ORDER BY e.enrollment_date, e.id`, classID)
	if err != nil {
		return nil, fmt.Errorf("list roster for class %d: %w", classID, err)
	}
	defer rows.Close()

	out := []domain.RosterEntry{}
	for rows.Next() {
		var r domain.RosterEntry
		var enrolledAt string
		if err := rows.Scan(&r.FullName, &r.Email, &r.Phone, &enrolledAt); err != nil {
			return nil, err
		}
		r.EnrolledAt = parseTime(enrolledAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// IsEnrolledInCourse reports whether email holds an enrollment in any class of courseID.
// PRE: email is non-empty
func (s *SQLiteStore) IsEnrolledInCourse(ctx context.Context, courseID int64, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM enrollments e
		JOIN classes c ON c.id = e.class_id
		JOIN users u ON u.id = e.user_id
		WHERE c.course_id = ? AND u.email = ?`, courseID, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check course enrollment: %w", err)
	}
	return n > 0, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{dateLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
