package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"elearning/internal/adapters/storage"
	"elearning/internal/domain/apperr"
	domain "elearning/internal/domain/video"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new video store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetInCourse retrieves a video only if it belongs to courseID.
// PRE: courseID > 0, videoID > 0
// POST: Returns the video, or *apperr.NotFoundError if absent or owned by another course
func (s *SQLiteStore) GetInCourse(ctx context.Context, courseID, videoID int64) (domain.Video, error) {
	var v domain.Video
	err := s.db.QueryRowContext(ctx,
		"SELECT id, course_id, title, url FROM course_videos WHERE id = ? AND course_id = ?",
		videoID, courseID,
	).Scan(&v.ID, &v.CourseID, &v.Title, &v.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Video{}, apperr.NotFound("video", videoID)
	}
	if err != nil {
		return domain.Video{}, fmt.Errorf("get video %d: %w", videoID, err)
	}
	return v, nil
}

// ListByCourse returns a course's videos in insertion (id) order.
// POST: Returns an empty slice when the course has no videos
func (s *SQLiteStore) ListByCourse(ctx context.Context, courseID int64) ([]domain.Video, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, course_id, title, url FROM course_videos WHERE course_id = ? ORDER BY id", courseID)
	if err != nil {
		return nil, fmt.Errorf("list videos for course %d: %w", courseID, err)
	}
	defer rows.Close()

	out := []domain.Video{}
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(&v.ID, &v.CourseID, &v.Title, &v.URL); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Create inserts a video and returns its generated id.
// PRE: v has been validated
// POST: A row exists with the returned id
func (s *SQLiteStore) Create(ctx context.Context, v domain.Video) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO course_videos (course_id, title, url) VALUES (?, ?, ?)", v.CourseID, v.Title, v.URL)
	if err != nil {
		return 0, fmt.Errorf("insert video: %w", err)
	}
	return res.LastInsertId()
}

// UpdateInCourse updates a video scoped to its course. A video id that belongs
// to another course matches nothing, which is reported as (false, nil).
// PRE: v has been validated, v.ID > 0
// POST: Returns whether a row was changed
func (s *SQLiteStore) UpdateInCourse(ctx context.Context, v domain.Video) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE course_videos SET title = ?, url = ? WHERE id = ? AND course_id = ?",
		v.Title, v.URL, v.ID, v.CourseID)
	if err != nil {
		return false, fmt.Errorf("update video %d: %w", v.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
