package admin

import (
	"context"

	domain "elearning/internal/domain/admin"
)

// Store persists Admin state.
type Store interface {
	GetByUsername(ctx context.Context, username string) (domain.Admin, error)
	Create(ctx context.Context, a domain.Admin) (int64, error)
	SaveLoginState(ctx context.Context, a domain.Admin) error
	Count(ctx context.Context) (int, error)
}
