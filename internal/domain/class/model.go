package class

import (
	"strings"

	"elearning/internal/domain/apperr"
)

var editMessages = apperr.Messages{
	"required": "Class Name, Date, and Time are required.",
	"max":      "Class name or link is too long.",
}

var addMessages = apperr.Messages{
	"required": "All fields are required.",
	"max":      "Class name or link is too long.",
}

// Class is a scheduled session of a course.
// Date and Time are kept as entered (YYYY-MM-DD, HH:MM).
type Class struct {
	ID       int64
	CourseID int64
	Name     string `form:"class_name" validate:"required,max=255"`
	Date     string `form:"class_date" validate:"required,max=32"`
	Time     string `form:"class_time" validate:"required,max=32"`
	Link     string `form:"class_link" validate:"omitempty,max=2048"`
}

// Detail is a class together with the name of its owning course.
type Detail struct {
	Class
	CourseName string
}

// CatalogRow is one row of the course/class outer join. Class is nil for a
// course that has no classes.
type CatalogRow struct {
	CourseID          int64
	CourseName        string
	CourseDescription string
	Class             *Class
}

// Normalize trims surrounding whitespace from editable fields.
// POST: string fields carry no leading/trailing whitespace
func (c *Class) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Date = strings.TrimSpace(c.Date)
	c.Time = strings.TrimSpace(c.Time)
	c.Link = strings.TrimSpace(c.Link)
}

// Validate checks the rules for editing an existing class.
// PRE: Normalize has been called
// POST: Returns nil if name, date and time are present
func (c *Class) Validate() error {
	return apperr.CheckStruct(c, editMessages)
}

// ValidateNew checks the rules for adding a class to a course.
// PRE: Normalize has been called
// POST: Returns nil if the owning course id is positive and name, date and time are present
func (c *Class) ValidateNew() error {
	err := apperr.CheckStruct(c, addMessages)
	if c.CourseID > 0 {
		return err
	}
	return apperr.WithField(err, addMessages["required"], "course_id")
}
