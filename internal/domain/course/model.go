package course

import (
	"strings"

	"elearning/internal/domain/apperr"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 10000
)

var messages = apperr.Messages{
	"required": "Course Name and Description are required.",
	"max":      "Course name or description is too long.",
}

// Course is a named offering that owns classes and videos.
type Course struct {
	ID          int64
	Name        string `form:"course_name" validate:"required,max=255"`
	Description string `form:"course_description" validate:"required,max=10000"`
}

// Normalize trims surrounding whitespace from editable fields.
// POST: Name and Description carry no leading/trailing whitespace
func (c *Course) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
}

// Validate checks that name and description are present.
// PRE: Normalize has been called
// POST: Returns nil if valid, *apperr.ValidationError otherwise
func (c *Course) Validate() error {
	return apperr.CheckStruct(c, messages)
}
