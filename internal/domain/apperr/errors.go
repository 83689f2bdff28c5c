// Package apperr defines the error kinds every workflow reports to its caller.
// Handlers branch on the kind, never on the message text.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateEnrollment is returned when the (user, class) pair already exists.
var ErrDuplicateEnrollment = errors.New("You are already enrolled in this class.")

// ValidationError reports input that failed field rules. No writes happened.
type ValidationError struct {
	Fields  []string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid input: " + strings.Join(e.Fields, ", ")
}

// HasField reports whether the named field failed validation.
// INVARIANT: ValidationError fields are not mutated
func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Invalid builds a ValidationError with a user-facing message.
// PRE: message is non-empty
// POST: returns a *ValidationError naming the given fields
func Invalid(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

// WithField adds field to err's offending fields. A nil err becomes a new
// ValidationError carrying message; message also replaces the text of an
// existing one when non-empty.
// POST: returns a *ValidationError when err is nil or already one; other errors pass through
func WithField(err error, message, field string) error {
	if err == nil {
		return Invalid(message, field)
	}
	var v *ValidationError
	if !errors.As(err, &v) {
		return err
	}
	if message != "" {
		v.Message = message
	}
	v.Fields = append([]string{field}, v.Fields...)
	return v
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found.", capitalize(e.Entity))
}

// NotFound builds a NotFoundError.
func NotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// AccessDeniedError reports that the visitor may not see a resource.
// The message is safe to show.
type AccessDeniedError struct {
	Message string
}

// Error implements error.
func (e *AccessDeniedError) Error() string {
	return e.Message
}

// Denied builds an AccessDeniedError.
func Denied(format string, args ...any) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a store failure. The wrapped cause is for logs only.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the store cause.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError, or returns nil when err is nil.
// Errors that already carry a kind are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsValidation(err) || IsDuplicate(err) || IsAccessDenied(err) || IsPersistence(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicate reports whether err signals a duplicate enrollment.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEnrollment)
}

// IsAccessDenied reports whether err is an *AccessDeniedError.
func IsAccessDenied(err error) bool {
	var d *AccessDeniedError
	return errors.As(err, &d)
}

// IsPersistence reports whether err is a *PersistenceError.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

// UserMessage returns the text safe to show in a banner.
// Persistence failures never leak their cause.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err), IsNotFound(err), IsDuplicate(err), IsAccessDenied(err):
		return err.Error()
	default:
		return "Something went wrong. Please try again later."
	}
}

func capitalize(s string) string {
	if s == "" {
		return "Record"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
