package projections

import (
	"context"
	"log/slog"

	"elearning/internal/domain/apperr"
	"elearning/internal/domain/class"
	"elearning/internal/domain/course"
)

// CatalogStore runs the course/class outer join.
type CatalogStore interface {
	ListCatalog(ctx context.Context) ([]class.CatalogRow, error)
}

// CourseStore loads a single course.
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (course.Course, error)
}

// storeError keeps typed errors and turns anything else into a logged persistence error.
func storeError(op string, err error) error {
	kinded := apperr.Persistence(op, err)
	if apperr.IsPersistence(kinded) {
		slog.Error("internal_error", "op", op, "error", err.Error())
	}
	return kinded
}
