package course

import (
	"context"

	domain "elearning/internal/domain/course"
)

// Store persists Course state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Create(ctx context.Context, c domain.Course) (int64, error)
	Update(ctx context.Context, c domain.Course) error
}
