package user

import (
	"context"

	domain "elearning/internal/domain/user"
)

// Store persists User state. Users are never updated.
type Store interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (int64, error)
}
