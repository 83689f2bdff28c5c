package contact

import (
	"context"

	domain "elearning/internal/domain/contact"
)

// Store persists contact messages.
type Store interface {
	Create(ctx context.Context, m domain.Message) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Message, error)
}
