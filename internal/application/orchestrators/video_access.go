package orchestrators

import (
	"context"
	"log/slog"

	"elearning/internal/domain/access"
	"elearning/internal/domain/apperr"
	"elearning/internal/domain/course"
	"elearning/internal/domain/user"
)

// CourseStoreForAccess loads the course being unlocked.
type CourseStoreForAccess interface {
	GetByID(ctx context.Context, id int64) (course.Course, error)
}

// EnrollmentStoreForAccess answers the enrollment check.
type EnrollmentStoreForAccess interface {
	IsEnrolledInCourse(ctx context.Context, courseID int64, email string) (bool, error)
}

// VerifyVideoAccessInput is the video gate form.
type VerifyVideoAccessInput struct {
	Visitor  access.Visitor
	CourseID int64
	Email    string
}

// VerifyVideoAccessDeps holds dependencies for VerifyVideoAccess.
type VerifyVideoAccessDeps struct {
	Courses     CourseStoreForAccess
	Enrollments EnrollmentStoreForAccess
}

// ExecuteVerifyVideoAccess unlocks a course's videos for an enrolled email.
// PRE: none; input is untrusted form data
// POST: on success the returned visitor holds a grant for CourseID; the input visitor is unchanged
func ExecuteVerifyVideoAccess(ctx context.Context, input VerifyVideoAccessInput, deps VerifyVideoAccessDeps) (access.Visitor, error) {
	if input.CourseID <= 0 {
		return input.Visitor, apperr.NotFound("course", input.CourseID)
	}
	crs, err := deps.Courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return input.Visitor, classifyStoreError("load course", err)
	}

	if err := user.ValidateEmail(input.Email); err != nil {
		return input.Visitor, err
	}
	email := user.NormalizeEmail(input.Email)

	enrolled, err := deps.Enrollments.IsEnrolledInCourse(ctx, crs.ID, email)
	if err != nil {
		return input.Visitor, classifyStoreError("check enrollment", err)
	}
	if !enrolled {
		slog.Info("access_event", "event", "video_access_denied", "course_id", crs.ID)
		return input.Visitor, apperr.Denied("You must be enrolled in a class for %s to view videos.", crs.Name)
	}

	slog.Info("access_event", "event", "video_access_granted", "course_id", crs.ID)
	return input.Visitor.WithGrant(crs.ID, email), nil
}
