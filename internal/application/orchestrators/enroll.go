package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	enrollmentStore "elearning/internal/adapters/storage/enrollment"
	"elearning/internal/domain/apperr"
	"elearning/internal/domain/class"
	"elearning/internal/domain/user"
)

// ClassStoreForEnroll loads the class being enrolled in.
type ClassStoreForEnroll interface {
	GetDetail(ctx context.Context, id int64) (class.Detail, error)
}

// EnrollmentStoreForEnroll performs the find-or-create + enroll transaction.
type EnrollmentStoreForEnroll interface {
	Enroll(ctx context.Context, classID int64, u user.User, now time.Time) (enrollmentStore.Outcome, error)
}

// EnrollInput carries the submitted enrollment form.
type EnrollInput struct {
	ClassID  int64
	FullName string
	Email    string
	Phone    string
}

// EnrollResult is shown on the confirmation banner.
type EnrollResult struct {
	EnrollmentID int64
	UserID       int64
	UserCreated  bool
	ClassName    string
	CourseName   string
}

// EnrollDeps holds dependencies for Enroll.
type EnrollDeps struct {
	Classes     ClassStoreForEnroll
	Enrollments EnrollmentStoreForEnroll
	Outbox      OutboxQueue // optional; confirmation email skipped when nil
	Now         func() time.Time
	GenerateID  func() string
}

// ExecuteEnroll registers a student for a class.
// PRE: none; input is untrusted form data
// POST: on success exactly one enrollment row exists for (user, class) and the
// user exists; on any error nothing from this call was written
// INVARIANT: a repeat (email, class) pair reports apperr.ErrDuplicateEnrollment
func ExecuteEnroll(ctx context.Context, input EnrollInput, deps EnrollDeps) (EnrollResult, error) {
	u := user.User{FullName: input.FullName, Email: input.Email, Phone: input.Phone}
	u.Normalize()
	err := u.Validate()
	if input.ClassID <= 0 {
		if err == nil {
			err = apperr.Invalid("Please select a class.", "class_id")
		} else {
			err = apperr.WithField(err, "", "class_id")
		}
	}
	if err != nil {
		return EnrollResult{}, err
	}

	detail, err := deps.Classes.GetDetail(ctx, input.ClassID)
	if err != nil {
		return EnrollResult{}, classifyStoreError("load class", err)
	}

	outcome, err := deps.Enrollments.Enroll(ctx, detail.ID, u, deps.Now())
	if apperr.IsDuplicate(err) {
		slog.Info("enroll_event", "event", "duplicate", "class_id", detail.ID)
		return EnrollResult{}, err
	}
	if err != nil {
		return EnrollResult{}, classifyStoreError("enroll", err)
	}

	slog.Info("enroll_event", "event", "enrolled",
		"class_id", detail.ID, "user_id", outcome.UserID, "user_created", outcome.UserCreated)

	result := EnrollResult{
		EnrollmentID: outcome.EnrollmentID,
		UserID:       outcome.UserID,
		UserCreated:  outcome.UserCreated,
		ClassName:    detail.Name,
		CourseName:   detail.CourseName,
	}
	queueEnrollmentConfirmation(ctx, deps, u, detail)
	return result, nil
}

// queueEnrollmentConfirmation never fails the enrollment: the row is already committed.
func queueEnrollmentConfirmation(ctx context.Context, deps EnrollDeps, u user.User, detail class.Detail) {
	if deps.Outbox == nil {
		return
	}
	p := EmailPayload{
		To:      u.Email,
		Subject: "Enrollment confirmed: " + detail.CourseName,
		HTML:    enrollmentConfirmationHTML(u, detail),
	}
	if _, err := QueueEmail(ctx, deps.Outbox, p, deps.Now(), deps.GenerateID); err != nil {
		slog.Error("enroll_event", "event", "confirmation_not_queued", "class_id", detail.ID, "error", err.Error())
	}
}

func enrollmentConfirmationHTML(u user.User, d class.Detail) string {
	body := fmt.Sprintf("<p>Hi %s,</p><p>You are enrolled in <strong>%s</strong> from %s on %s at %s.</p>",
		html.EscapeString(u.FullName), html.EscapeString(d.Name), html.EscapeString(d.CourseName),
		html.EscapeString(d.Date), html.EscapeString(d.Time))
	if d.Link != "" {
		body += fmt.Sprintf(`<p>Join link: <a href="%s">%s</a></p>`, html.EscapeString(d.Link), html.EscapeString(d.Link))
	}
	return body
}

// classifyStoreError logs unexpected store failures and returns them as
// persistence errors. Errors that already carry a kind pass through silently.
func classifyStoreError(op string, err error) error {
	kinded := apperr.Persistence(op, err)
	if apperr.IsPersistence(kinded) {
		slog.Error("internal_error", "op", op, "error", err.Error())
	}
	return kinded
}
