package orchestrators

import (
	"context"
	"log/slog"

	"elearning/internal/domain/course"
)

// CourseStoreForAdd creates courses.
type CourseStoreForAdd interface {
	Create(ctx context.Context, c course.Course) (int64, error)
}

// AddCourseInput carries the dashboard's new-course form.
type AddCourseInput struct {
	Name        string
	Description string
}

// AddCourseDeps holds dependencies for AddCourse.
type AddCourseDeps struct {
	Courses CourseStoreForAdd
}

// ExecuteAddCourse creates a course with the same rules as editing one.
// PRE: none; input is untrusted form data
// POST: returns the new course id, or a ValidationError / PersistenceError with no row written
func ExecuteAddCourse(ctx context.Context, input AddCourseInput, deps AddCourseDeps) (int64, error) {
	c := course.Course{Name: input.Name, Description: input.Description}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := deps.Courses.Create(ctx, c)
	if err != nil {
		return 0, classifyStoreError("add course", err)
	}
	slog.Info("content_event", "event", "course_added", "course_id", id)
	return id, nil
}
