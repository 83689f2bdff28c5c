package outbox

import (
	"context"

	domain "elearning/internal/domain/outbox"
)

// Store persists outbox entries.
type Store interface {
	// GetByID retrieves an entry.
	// PRE: id is non-empty
	// POST: Returns the entry or an error if not found
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save inserts or updates an entry.
	// PRE: entry has been validated
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns up to limit pending or retrying entries, oldest first.
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// CountByStatus returns the number of entries per status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}
