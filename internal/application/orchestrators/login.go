package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	adminStore "elearning/internal/adapters/storage/admin"
	"elearning/internal/domain/admin"
)

// AdminStoreForLogin defines the store interface needed by Login.
type AdminStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (admin.Admin, error)
	SaveLoginState(ctx context.Context, a admin.Admin) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries what the session needs after a successful login.
type LoginResult struct {
	AdminID  int64
	Username string
	FullName string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Admins AdminStoreForLogin
	Now    func() time.Time
}

var (
	ErrMissingCredentials = errors.New("Username and password are required.")
	ErrInvalidCredentials = errors.New("Invalid username or password.")
	ErrAccountLocked      = errors.New("Too many failed attempts. Please try again in 15 minutes.")
)

// ExecuteLogin checks admin credentials.
// PRE: none; input is untrusted form data
// POST: Returns the admin on success; records the failure (and any lockout) otherwise
// INVARIANT: a locked admin cannot log in, even with the right password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	a, err := deps.Admins.GetByUsername(ctx, username)
	if errors.Is(err, adminStore.ErrNotFound) {
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, classifyStoreError("load admin", err)
	}

	now := deps.Now()
	if a.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "username", username, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := a.CheckPassword(input.Password); err != nil {
		a.RecordFailedLogin(now)
		if err := deps.Admins.SaveLoginState(ctx, a); err != nil {
			slog.Error("internal_error", "op", "save login state", "error", err.Error())
		}
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "wrong_password", "failed_logins", a.FailedLogins)
		if a.IsLocked(now) {
			return LoginResult{}, ErrAccountLocked
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	if a.FailedLogins > 0 || !a.LockedUntil.IsZero() {
		a.ResetFailedLogins()
		if err := deps.Admins.SaveLoginState(ctx, a); err != nil {
			slog.Error("internal_error", "op", "save login state", "error", err.Error())
		}
	}

	slog.Info("auth_event", "event", "login_success", "username", username, "admin_id", a.ID)
	return LoginResult{AdminID: a.ID, Username: a.Username, FullName: a.FullName}, nil
}
