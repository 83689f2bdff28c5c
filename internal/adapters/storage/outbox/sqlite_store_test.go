package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"elearning/internal/adapters/storage/outbox"
	"elearning/internal/adapters/storage/storagetest"
	domain "elearning/internal/domain/outbox"
)

func TestOutboxStore_SaveAndListPending(t *testing.T) {
	db := storagetest.Open(t)
	store := outbox.NewSQLiteStore(db)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	entries := []domain.Entry{
		{ID: "a", ActionType: domain.ActionTypeEmail, Payload: "{}", Status: domain.StatusPending, MaxAttempts: 5, CreatedAt: now},
		{ID: "b", ActionType: domain.ActionTypeEmail, Payload: "{}", Status: domain.StatusDone, MaxAttempts: 5, CreatedAt: now.Add(time.Second)},
		{ID: "c", ActionType: domain.ActionTypeEmail, Payload: "{}", Status: domain.StatusRetrying, Attempts: 1, MaxAttempts: 5, CreatedAt: now.Add(2 * time.Second), LastAttemptedAt: now},
	}
	for _, e := range entries {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save %s: %v", e.ID, err)
		}
	}

	pending, err := store.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Fatalf("pending = %+v, want a then c", pending)
	}
	if !pending[1].LastAttemptedAt.Equal(now) {
		t.Errorf("LastAttemptedAt = %v, want %v", pending[1].LastAttemptedAt, now)
	}

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[domain.StatusPending] != 1 || counts[domain.StatusDone] != 1 || counts[domain.StatusRetrying] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestOutboxStore_SaveUpdatesInPlace(t *testing.T) {
	db := storagetest.Open(t)
	store := outbox.NewSQLiteStore(db)
	ctx := context.Background()

	e := domain.Entry{ID: "x", ActionType: domain.ActionTypeEmail, Payload: "{}", Status: domain.StatusPending, MaxAttempts: 5, CreatedAt: time.Now()}
	store.Save(ctx, e)
	e.MarkAttempt(time.Now())
	e.MarkSuccess("msg-1")
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, err := store.GetByID(ctx, "x")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusDone || got.ExternalID != "msg-1" || got.Attempts != 1 {
		t.Errorf("entry = %+v", got)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, outbox.ErrNotFound) {
		t.Errorf("missing entry err = %v, want ErrNotFound", err)
	}
}
