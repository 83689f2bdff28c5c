package outbox

import (
	"errors"
	"time"
)

// Status constants for the entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// ActionTypeEmail is the only external action the portal performs.
const ActionTypeEmail = "email"

// DefaultMaxAttempts bounds delivery attempts per entry.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrMissingCreated  = errors.New("created_at must be set")
)

// Entry is one queued outbound action, replayed until it succeeds or runs out of attempts.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON, decoded by the executor for ActionType
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // provider message id once delivered
	ErrorMessage    string
}

// Validate checks that the Entry has valid data and fills defaults.
// PRE: Entry struct is populated
// POST: Returns nil if valid; MaxAttempts and Status defaulted when unset
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return ErrMissingCreated
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	return nil
}

// CanRetry reports whether another attempt is allowed.
// INVARIANT: Entry fields are not mutated
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying) && e.Attempts < e.MaxAttempts
}

// IsTerminal reports whether the entry will never be attempted again.
// INVARIANT: Entry fields are not mutated
func (e *Entry) IsTerminal() bool {
	return e.Status == StatusDone || e.Status == StatusAbandoned || e.Status == StatusFailed
}

// MarkAttempt records the start of an attempt at now.
// POST: Attempts incremented, LastAttemptedAt = now, Status = retrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess records a delivered action.
// POST: Status = done, ErrorMessage cleared
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records a failed attempt. Once attempts are exhausted the entry is failed for good.
// POST: ErrorMessage set; Status = failed when Attempts >= MaxAttempts
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned stops further attempts.
func (e *Entry) MarkAbandoned() {
	e.Status = StatusAbandoned
}

// NextRetryDelay is 2^attempts * base, capped at max.
// INVARIANT: Entry fields are not mutated
func (e *Entry) NextRetryDelay(base, max time.Duration) time.Duration {
	if e.Attempts >= 32 {
		return max
	}
	delay := base * (1 << e.Attempts)
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}

// DueAt reports whether the entry may be attempted at now given the backoff policy.
// INVARIANT: Entry fields are not mutated
func (e *Entry) DueAt(now time.Time, base, max time.Duration) bool {
	if e.LastAttemptedAt.IsZero() {
		return true
	}
	return !now.Before(e.LastAttemptedAt.Add(e.NextRetryDelay(base, max)))
}
