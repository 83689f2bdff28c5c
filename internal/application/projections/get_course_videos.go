package projections

import (
	"context"

	"elearning/internal/domain/access"
	"elearning/internal/domain/apperr"
	"elearning/internal/domain/course"
	"elearning/internal/domain/video"
)

// VideoLister lists the videos of a course.
type VideoLister interface {
	ListByCourse(ctx context.Context, courseID int64) ([]video.Video, error)
}

// GetCourseVideosQuery carries input for the course videos projection.
type GetCourseVideosQuery struct {
	Visitor  access.Visitor
	CourseID int64
}

// GetCourseVideosDeps holds dependencies for the course videos projection.
type GetCourseVideosDeps struct {
	Courses CourseStore
	Videos  VideoLister
}

// CourseVideosResult is the video page. Without a grant only the course is
// filled in and the page shows the email gate.
type CourseVideosResult struct {
	Course   course.Course
	Unlocked bool
	Email    string
	Videos   []video.Video
}

// QueryGetCourseVideos returns a course's videos when the visitor has unlocked it.
// PRE: none
// POST: Videos is nil unless Unlocked; videos are ordered by id
func QueryGetCourseVideos(ctx context.Context, query GetCourseVideosQuery, deps GetCourseVideosDeps) (CourseVideosResult, error) {
	if query.CourseID <= 0 {
		return CourseVideosResult{}, apperr.NotFound("course", query.CourseID)
	}
	c, err := deps.Courses.GetByID(ctx, query.CourseID)
	if err != nil {
		return CourseVideosResult{}, storeError("load course", err)
	}
	result := CourseVideosResult{Course: c}

	email, ok := query.Visitor.Grant(c.ID)
	if !ok {
		return result, nil
	}
	videos, err := deps.Videos.ListByCourse(ctx, c.ID)
	if err != nil {
		return CourseVideosResult{}, storeError("list videos", err)
	}
	result.Unlocked = true
	result.Email = email
	result.Videos = videos
	return result, nil
}
