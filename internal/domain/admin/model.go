package admin

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Lockout policy.
const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
	MinPasswordLen  = 12
	bcryptCost      = 12
)

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooLong  = errors.New("username cannot exceed 64 characters")
	ErrEmptyFullName    = errors.New("full name cannot be empty")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// Admin is an instructor allowed to manage courses, classes and videos.
// The password is only ever held as a bcrypt hash.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	FailedLogins int
	LockedUntil  time.Time
}

// Validate checks if the Admin has valid data.
// PRE: Admin struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Admin) Validate() error {
	a.Username = strings.TrimSpace(a.Username)
	if a.Username == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > 64 {
		return ErrUsernameTooLong
	}
	if strings.TrimSpace(a.FullName) == "" {
		return ErrEmptyFullName
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is non-empty and >= 12 characters
// POST: PasswordHash is set to bcrypt hash
func (a *Admin) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// The comparison runs in constant time.
// INVARIANT: Admin fields are not mutated
func (a *Admin) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether the admin is locked out at now.
// INVARIANT: Admin fields are not mutated
func (a *Admin) IsLocked(now time.Time) bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return now.Before(a.LockedUntil)
}

// RecordFailedLogin increments the failure counter and locks after MaxFailedLogins.
// POST: FailedLogins incremented; LockedUntil set if the limit is reached
func (a *Admin) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failure counter and lock.
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Admin) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}
