package video

import (
	"strings"

	"elearning/internal/domain/apperr"
)

var messages = apperr.Messages{
	"required": "Video Title and URL are required.",
	"max":      "Video title or URL is too long.",
}

// Video is a course-wide recording. Order of display is by ID.
type Video struct {
	ID       int64
	CourseID int64
	Title    string `form:"video_title" validate:"required,max=255"`
	URL      string `form:"video_url" validate:"required,max=2048"`
}

// Normalize trims surrounding whitespace from editable fields.
func (v *Video) Normalize() {
	v.Title = strings.TrimSpace(v.Title)
	v.URL = strings.TrimSpace(v.URL)
}

// Validate checks title, url and the owning course.
// PRE: Normalize has been called
// POST: Returns nil if valid, *apperr.ValidationError otherwise
func (v *Video) Validate() error {
	err := apperr.CheckStruct(v, messages)
	if v.CourseID > 0 {
		return err
	}
	return apperr.WithField(err, messages["required"], "course_id")
}

// IsUpdate reports whether this video refers to an existing row.
// INVARIANT: Video fields are not mutated
func (v *Video) IsUpdate() bool {
	return v.ID > 0
}
