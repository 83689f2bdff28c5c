package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"elearning/internal/domain/apperr"
)

func TestKinds_SurviveWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", apperr.Invalid("bad", "email"), apperr.IsValidation},
		{"not found", apperr.NotFound("class", 3), apperr.IsNotFound},
		{"duplicate", apperr.ErrDuplicateEnrollment, apperr.IsDuplicate},
		{"denied", apperr.Denied("no access to %s", "Go"), apperr.IsAccessDenied},
		{"persistence", apperr.Persistence("enroll", errors.New("disk full")), apperr.IsPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("kind lost through wrapping: %v", wrapped)
			}
		})
	}
}

func TestPersistence_KeepsExistingKind(t *testing.T) {
	nf := apperr.NotFound("course", 9)
	if got := apperr.Persistence("load", nf); got != error(nf) {
		t.Errorf("Persistence rewrapped a not-found error: %v", got)
	}
	if apperr.Persistence("load", nil) != nil {
		t.Error("Persistence(nil) must be nil")
	}
	if got := apperr.Persistence("enroll", apperr.ErrDuplicateEnrollment); !apperr.IsDuplicate(got) || apperr.IsPersistence(got) {
		t.Errorf("duplicate became %v", got)
	}
}

func TestUserMessage_HidesPersistenceCause(t *testing.T) {
	err := apperr.Persistence("enroll", errors.New("database is locked"))
	msg := apperr.UserMessage(err)
	if msg != "Something went wrong. Please try again later." {
		t.Errorf("message = %q", msg)
	}
	if got := apperr.UserMessage(apperr.NotFound("class", 1)); got != "Class not found." {
		t.Errorf("not found message = %q", got)
	}
	if got := apperr.UserMessage(apperr.ErrDuplicateEnrollment); got != "You are already enrolled in this class." {
		t.Errorf("duplicate message = %q", got)
	}
	if apperr.UserMessage(nil) != "" {
		t.Error("nil error must have no message")
	}
}

func TestWithField(t *testing.T) {
	err := apperr.WithField(nil, "All fields are required.", "class_id")
	var v *apperr.ValidationError
	if !errors.As(err, &v) || !v.HasField("class_id") || v.Message != "All fields are required." {
		t.Fatalf("WithField(nil) = %#v", err)
	}

	err = apperr.WithField(apperr.Invalid("Invalid email format.", "email"), "", "class_id")
	if !errors.As(err, &v) || !v.HasField("email") || !v.HasField("class_id") {
		t.Errorf("fields = %v", v.Fields)
	}
	if v.Message != "Invalid email format." {
		t.Errorf("empty message must keep the original, got %q", v.Message)
	}

	plain := errors.New("boom")
	if apperr.WithField(plain, "x", "f") != plain {
		t.Error("non-validation errors must pass through")
	}
}

func TestCheckStruct_RequiredOutranksFormat(t *testing.T) {
	type form struct {
		Name  string `form:"name" validate:"required"`
		Email string `form:"email" validate:"required,email"`
	}
	msgs := apperr.Messages{"required": "missing", "email": "bad email"}

	err := apperr.CheckStruct(form{Name: "", Email: "nope"}, msgs)
	var v *apperr.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("err = %v", err)
	}
	if v.Message != "missing" {
		t.Errorf("message = %q, want required message", v.Message)
	}
	if !v.HasField("name") || !v.HasField("email") {
		t.Errorf("fields = %v, want form names", v.Fields)
	}

	err = apperr.CheckStruct(form{Name: "Ada", Email: "nope"}, msgs)
	if !errors.As(err, &v) || v.Message != "bad email" {
		t.Errorf("err = %v, want bad email", err)
	}
	if apperr.CheckStruct(form{Name: "Ada", Email: "ada@example.com"}, msgs) != nil {
		t.Error("valid form rejected")
	}
}
