package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"elearning/internal/domain/apperr"
	"elearning/internal/domain/class"
	"elearning/internal/domain/course"
	"elearning/internal/domain/video"
)

// ContentAction selects one admin editor view. The set is closed.
type ContentAction string

const (
	ActionEditClass  ContentAction = "edit_class"
	ActionAddClass   ContentAction = "add_class"
	ActionEditCourse ContentAction = "edit_course"
	ActionListVideos ContentAction = "manage_videos"
	ActionVideoForm  ContentAction = "edit_video_form"
)

// ErrInvalidAction is returned for an action tag outside the closed set.
var ErrInvalidAction = errors.New("Invalid action specified.")

// ParseContentAction maps a query tag to an action. An empty tag means ActionEditClass.
// POST: ok is false for unknown tags
func ParseContentAction(tag string) (ContentAction, bool) {
	switch a := ContentAction(tag); a {
	case "":
		return ActionEditClass, true
	case ActionEditClass, ActionAddClass, ActionEditCourse, ActionListVideos, ActionVideoForm:
		return a, true
	}
	return "", false
}

// Banner kinds.
const (
	BannerSuccess = "success"
	BannerError   = "error"
)

// Banner is the inline status line above an editor form.
type Banner struct {
	Kind string
	Text string
}

// ContentRequest is one admin editor request: the action, the ids from the
// query string and, on submit, the posted fields.
type ContentRequest struct {
	Action   ContentAction
	Submit   bool
	ClassID  int64
	CourseID int64
	VideoID  int64

	Class  class.Class   // posted class fields (EditClass, AddClass)
	Course course.Course // posted course fields (EditCourse)
	Video  video.Video   // posted video fields (ListVideos, VideoForm)
}

// VideoFormView is the add/edit video form.
type VideoFormView struct {
	Heading string
	Video   video.Video
}

// ContentPage is everything an editor view renders.
// Exactly one of the form sections is set, except ListVideos which sets
// Videos and embeds VideoForm.
type ContentPage struct {
	Action ContentAction
	Banner *Banner

	Class     *class.Detail  // EditClass
	NewClass  *class.Class   // AddClass
	Course    *course.Course // owning course for every action but EditClass
	Videos    []video.Video  // ListVideos
	VideoForm *VideoFormView // ListVideos, VideoForm
	Invalid   []string       // form fields that failed validation
}

// ShowsVideoList reports whether the page is the composed list view.
func (p ContentPage) ShowsVideoList() bool {
	return p.Action == ActionListVideos
}

// CourseStoreForContent is the course surface of the editor.
type CourseStoreForContent interface {
	GetByID(ctx context.Context, id int64) (course.Course, error)
	Update(ctx context.Context, c course.Course) error
}

// ClassStoreForContent is the class surface of the editor.
type ClassStoreForContent interface {
	GetDetail(ctx context.Context, id int64) (class.Detail, error)
	Create(ctx context.Context, c class.Class) (int64, error)
	Update(ctx context.Context, c class.Class) error
}

// VideoStoreForContent is the video surface of the editor.
type VideoStoreForContent interface {
	GetInCourse(ctx context.Context, courseID, videoID int64) (video.Video, error)
	ListByCourse(ctx context.Context, courseID int64) ([]video.Video, error)
	Create(ctx context.Context, v video.Video) (int64, error)
	UpdateInCourse(ctx context.Context, v video.Video) (bool, error)
}

// ContentDeps holds dependencies for the content editor.
type ContentDeps struct {
	Courses CourseStoreForContent
	Classes ClassStoreForContent
	Videos  VideoStoreForContent
}

// ExecuteContentAction loads the target of req.Action and, on submit, applies
// the write before rendering the same action again.
// PRE: req.Action came from ParseContentAction
// POST: the returned error is terminal for the request (not found, invalid
// action, or a failed load); submit failures are reported in ContentPage.Banner
func ExecuteContentAction(ctx context.Context, req ContentRequest, deps ContentDeps) (ContentPage, error) {
	switch req.Action {
	case ActionEditClass:
		return editClass(ctx, req, deps)
	case ActionAddClass:
		return addClass(ctx, req, deps)
	case ActionEditCourse:
		return editCourse(ctx, req, deps)
	case ActionListVideos:
		return listVideos(ctx, req, deps)
	case ActionVideoForm:
		return videoForm(ctx, req, deps)
	default:
		return ContentPage{}, ErrInvalidAction
	}
}

func editClass(ctx context.Context, req ContentRequest, deps ContentDeps) (ContentPage, error) {
	detail, err := loadClass(ctx, deps, req.ClassID)
	if err != nil {
		return ContentPage{}, err
	}
	page := ContentPage{Action: ActionEditClass, Class: &detail}
	if !req.Submit {
		return page, nil
	}

	c := req.Class
	c.ID, c.CourseID = detail.ID, detail.CourseID
	c.Normalize()
	detail.Class = c

	if err := c.Validate(); err != nil {
		return page.withError(err), nil
	}
	if err := deps.Classes.Update(ctx, c); err != nil {
		return page.withError(classifyStoreError("update class", err)), nil
	}
	slog.Info("content_event", "event", "class_updated", "class_id", c.ID)
	return page.withSuccess("Class details updated successfully!"), nil
}

func addClass(ctx context.Context, req ContentRequest, deps ContentDeps) (ContentPage, error) {
	crs, err := loadCourse(ctx, deps, req.CourseID)
	if err != nil {
		return ContentPage{}, err
	}
	page := ContentPage{Action: ActionAddClass, Course: &crs, NewClass: &class.Class{CourseID: crs.ID}}
	if !req.Submit {
		return page, nil
	}

	c := req.Class
	c.ID, c.CourseID = 0, crs.ID
	c.Normalize()
	page.NewClass = &c

	if err := c.ValidateNew(); err != nil {
		return page.withError(err), nil
	}
	id, err := deps.Classes.Create(ctx, c)
	if err != nil {
		return page.withError(classifyStoreError("add class", err)), nil
	}
	slog.Info("content_event", "event", "class_added", "class_id", id, "course_id", crs.ID)
	page.NewClass = &class.Class{CourseID: crs.ID}
	return page.withSuccess("New Class added successfully!"), nil
}

func editCourse(ctx context.Context, req ContentRequest, deps ContentDeps) (ContentPage, error) {
	crs, err := loadCourse(ctx, deps, req.CourseID)
	if err != nil {
		return ContentPage{}, err
	}
	page := ContentPage{Action: ActionEditCourse, Course: &crs}
	if !req.Submit {
		return page, nil
	}

	c := req.Course
	c.ID = crs.ID
	c.Normalize()
	page.Course = &c

	if err := c.Validate(); err != nil {
		return page.withError(err), nil
	}
	if err := deps.Courses.Update(ctx, c); err != nil {
		return page.withError(classifyStoreError("update course", err)), nil
	}
	slog.Info("content_event", "event", "course_updated", "course_id", c.ID)
	return page.withSuccess("Course details updated successfully!"), nil
}

// listVideos is the video table with the video form embedded below it.
func listVideos(ctx context.Context, req ContentRequest, deps ContentDeps) (ContentPage, error) {
	page, err := videoForm(ctx, req, deps)
	if err != nil {
		return ContentPage{}, err
	}
	page.Action = ActionListVideos

	videos, err := deps.Videos.ListByCourse(ctx, page.Course.ID)
	if err != nil {
		return ContentPage{}, classifyStoreError("list videos", err)
	}
	page.Videos = videos
	return page, nil
}

func videoForm(ctx context.Context, req ContentRequest, deps ContentDeps) (ContentPage, error) {
	crs, err := loadCourse(ctx, deps, req.CourseID)
	if err != nil {
		return ContentPage{}, err
	}
	page := ContentPage{Action: ActionVideoForm, Course: &crs}

	if req.Submit {
		return submitVideo(ctx, req, deps, page), nil
	}

	form := &VideoFormView{Heading: "Add New Video", Video: video.Video{CourseID: crs.ID}}
	if req.VideoID > 0 {
		v, err := deps.Videos.GetInCourse(ctx, crs.ID, req.VideoID)
		if err != nil {
			return ContentPage{}, classifyStoreError("load video", err)
		}
		form = &VideoFormView{Heading: "Edit Video", Video: v}
	}
	page.VideoForm = form
	return page, nil
}

// submitVideo inserts, or updates scoped to the course. An id from another
// course matches no row and is still reported as success.
func submitVideo(ctx context.Context, req ContentRequest, deps ContentDeps, page ContentPage) ContentPage {
	v := req.Video
	v.ID, v.CourseID = req.VideoID, page.Course.ID
	v.Normalize()

	heading := "Add New Video"
	if v.IsUpdate() {
		heading = "Edit Video"
	}
	page.VideoForm = &VideoFormView{Heading: heading, Video: v}

	if err := v.Validate(); err != nil {
		return page.withError(err)
	}

	if v.IsUpdate() {
		changed, err := deps.Videos.UpdateInCourse(ctx, v)
		if err != nil {
			return page.withError(classifyStoreError("update video", err))
		}
		slog.Info("content_event", "event", "video_updated", "video_id", v.ID, "course_id", v.CourseID, "matched", changed)
		page = page.withSuccess("Video updated successfully!")
	} else {
		id, err := deps.Videos.Create(ctx, v)
		if err != nil {
			return page.withError(classifyStoreError("add video", err))
		}
		slog.Info("content_event", "event", "video_added", "video_id", id, "course_id", v.CourseID)
		page = page.withSuccess("Video added successfully!")
	}
	page.VideoForm = &VideoFormView{Heading: "Add New Video", Video: video.Video{CourseID: v.CourseID}}
	return page
}

func loadCourse(ctx context.Context, deps ContentDeps, id int64) (course.Course, error) {
	if id <= 0 {
		return course.Course{}, apperr.NotFound("course", id)
	}
	c, err := deps.Courses.GetByID(ctx, id)
	if err != nil {
		return course.Course{}, classifyStoreError("load course", err)
	}
	return c, nil
}

func loadClass(ctx context.Context, deps ContentDeps, id int64) (class.Detail, error) {
	if id <= 0 {
		return class.Detail{}, apperr.NotFound("class", id)
	}
	d, err := deps.Classes.GetDetail(ctx, id)
	if err != nil {
		return class.Detail{}, classifyStoreError("load class", err)
	}
	return d, nil
}

func (p ContentPage) withSuccess(text string) ContentPage {
	p.Banner = &Banner{Kind: BannerSuccess, Text: text}
	p.Invalid = nil
	return p
}

func (p ContentPage) withError(err error) ContentPage {
	p.Banner = &Banner{Kind: BannerError, Text: apperr.UserMessage(err)}
	var v *apperr.ValidationError
	if errors.As(err, &v) {
		p.Invalid = v.Fields
	}
	return p
}
