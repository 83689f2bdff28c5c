package user

import (
	"strings"

	"elearning/internal/domain/apperr"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MaxPhoneLength = 32
)

var messages = apperr.Messages{
	"required": "All fields are required.",
	"email":    "Invalid email format.",
	"max":      "One of the fields is too long.",
}

// User is a student identified by email. Users are created lazily on first
// enrollment and never modified afterwards.
type User struct {
	ID       int64
	FullName string `form:"full_name" validate:"required,max=255"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Phone    string `form:"phone" validate:"required,max=32"`
}

// Normalize trims surrounding whitespace and folds the email to lower case.
// POST: FullName, Email, Phone carry no leading/trailing whitespace
func (u *User) Normalize() {
	u.FullName = strings.TrimSpace(u.FullName)
	u.Email = NormalizeEmail(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)
}

// NormalizeEmail is the identity key form of an address: trimmed, lower case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks that all fields are present and the email is well formed.
// PRE: Normalize has been called
// POST: Returns nil if valid, *apperr.ValidationError otherwise
func (u *User) Validate() error {
	return apperr.CheckStruct(u, messages)
}

// emailOnly is used when only an email address is collected (video gate).
type emailOnly struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

// ValidateEmail checks a standalone email address.
// POST: Returns nil if email is present and well formed
func ValidateEmail(email string) error {
	return apperr.CheckStruct(emailOnly{Email: NormalizeEmail(email)}, apperr.Messages{
		"required": "Please enter your email address.",
		"email":    "Invalid email format.",
		"max":      "Invalid email format.",
	})
}
