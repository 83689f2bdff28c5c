package class

import (
	"context"

	domain "elearning/internal/domain/class"
)

// Store persists Class state.
type Store interface {
	GetDetail(ctx context.Context, id int64) (domain.Detail, error)
	Create(ctx context.Context, c domain.Class) (int64, error)
	Update(ctx context.Context, c domain.Class) error
	ListCatalog(ctx context.Context) ([]domain.CatalogRow, error)
}
