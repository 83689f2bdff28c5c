package admin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"elearning/internal/adapters/storage/admin"
	"elearning/internal/adapters/storage/storagetest"
	domain "elearning/internal/domain/admin"
)

func TestAdminStore_LoginStateRoundTrip(t *testing.T) {
	db := storagetest.Open(t)
	store := admin.NewSQLiteStore(db)
	ctx := context.Background()

	id, err := store.Create(ctx, domain.Admin{Username: "instructor", PasswordHash: "$2a$hash", FullName: "Grace Hopper"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	lock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := store.SaveLoginState(ctx, domain.Admin{ID: id, FailedLogins: 5, LockedUntil: lock}); err != nil {
		t.Fatalf("SaveLoginState: %v", err)
	}

	got, err := store.GetByUsername(ctx, "instructor")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.FailedLogins != 5 || !got.LockedUntil.Equal(lock) {
		t.Errorf("login state = %d / %v", got.FailedLogins, got.LockedUntil)
	}
	if got.PasswordHash != "$2a$hash" {
		t.Error("password hash must not be touched by SaveLoginState")
	}

	got.ResetFailedLogins()
	store.SaveLoginState(ctx, got)
	got, _ = store.GetByUsername(ctx, "instructor")
	if !got.LockedUntil.IsZero() {
		t.Errorf("LockedUntil = %v, want zero after reset", got.LockedUntil)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
	if _, err := store.GetByUsername(ctx, "nobody"); !errors.Is(err, admin.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
