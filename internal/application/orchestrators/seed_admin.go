package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"elearning/internal/domain/admin"
)

// AdminStoreForSeed defines the store interface needed by SeedAdmin.
type AdminStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, a admin.Admin) (int64, error)
}

// SeedAdminInput names the first administrator.
type SeedAdminInput struct {
	Username string
	Password string
	FullName string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	Admins AdminStoreForSeed
}

// ExecuteSeedAdmin creates the first admin when none exists.
// PRE: called once at startup
// POST: at least one admin exists; created reports whether this call made it
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) (created bool, err error) {
	n, err := deps.Admins.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	a := admin.Admin{Username: input.Username, FullName: input.FullName}
	if err := a.Validate(); err != nil {
		return false, err
	}
	if err := a.SetPassword(input.Password); err != nil {
		return false, fmt.Errorf("seed admin password: %w", err)
	}
	id, err := deps.Admins.Create(ctx, a)
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	slog.Info("auth_event", "event", "admin_seeded", "admin_id", id, "username", a.Username)
	return true, nil
}
