package video

import (
	"context"

	domain "elearning/internal/domain/video"
)

// Store persists Video state.
type Store interface {
	GetInCourse(ctx context.Context, courseID, videoID int64) (domain.Video, error)
	ListByCourse(ctx context.Context, courseID int64) ([]domain.Video, error)
	Create(ctx context.Context, v domain.Video) (int64, error)
	UpdateInCourse(ctx context.Context, v domain.Video) (bool, error)
}
