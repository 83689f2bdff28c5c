package enrollment

import (
	"context"
	"time"

	domain "elearning/internal/domain/enrollment"
	userDomain "elearning/internal/domain/user"
)

// Outcome describes what a successful Enroll wrote.
type Outcome struct {
	EnrollmentID int64
	UserID       int64
	UserCreated  bool
}

// Store persists enrollments.
type Store interface {
	// Enroll finds or creates the user by email and enrolls them in classID,
	// atomically. A repeat (user, class) pair yields apperr.ErrDuplicateEnrollment
	// and leaves no rows behind from this call.
	Enroll(ctx context.Context, classID int64, u userDomain.User, now time.Time) (Outcome, error)

	// ListRoster returns the enrolled students of a class, oldest enrollment first.
	ListRoster(ctx context.Context, classID int64) ([]domain.RosterEntry, error)

	// IsEnrolledInCourse reports whether email is enrolled in any class of courseID.
	IsEnrolledInCourse(ctx context.Context, courseID int64, email string) (bool, error)
}
