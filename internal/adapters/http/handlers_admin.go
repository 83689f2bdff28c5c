package web

import (
	"errors"
	"log/slog"
	"net/http"

	"elearning/internal/adapters/http/middleware"
	"elearning/internal/application/orchestrators"
	"elearning/internal/application/projections"
	"elearning/internal/domain/apperr"
	"elearning/internal/domain/class"
	"elearning/internal/domain/course"
	"elearning/internal/domain/video"
)

// loginMessage keeps the login workflow's own wording and hides everything else.
func loginMessage(err error) string {
	switch {
	case errors.Is(err, orchestrators.ErrMissingCredentials),
		errors.Is(err, orchestrators.ErrInvalidCredentials),
		errors.Is(err, orchestrators.ErrAccountLocked):
		return err.Error()
	default:
		return apperr.UserMessage(err)
	}
}

// handleAdminLogin handles GET (form) and POST (authenticate) for /admin/login
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if middleware.VisitorFromContext(r.Context()).IsAdmin() {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		s.render(w, r, http.StatusOK, "admin_login.html", "Instructor Login", map[string]string{})
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.LoginInput{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
		result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
			Admins: s.stores.Admins,
			Now:    s.now,
		})
		if err != nil {
			s.render(w, r, http.StatusOK, "admin_login.html", "Instructor Login", map[string]string{
				"Username": input.Username,
				"Error":    loginMessage(err),
			})
			return
		}

		token, err := s.sessions.Create(result.AdminID, result.Username, result.FullName)
		if err != nil {
			internalError(w, err)
			return
		}
		s.sessions.SetCookie(w, token)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	methodNotAllowed(w, "GET, POST")
}

// handleAdminLogout handles POST /admin/logout
func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if token := s.sessions.Token(r); token != "" {
		s.sessions.Delete(token)
	}
	if v := middleware.VisitorFromContext(r.Context()); v.IsAdmin() {
		slog.Info("auth_event", "event", "logout", "admin_id", v.Admin.AdminID)
	}
	s.sessions.ClearCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

type dashboardPage struct {
	projections.AdminDashboardResult
	NewCourse course.Course
	Success   string
	Error     string
}

// handleAdminDashboard handles GET (overview, roster) and POST (add course) for /admin
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	page := dashboardPage{}

	if r.Method == http.MethodPost {
		page.NewCourse = course.Course{
			Name:        r.PostFormValue("course_name"),
			Description: r.PostFormValue("course_description"),
		}
		_, err := orchestrators.ExecuteAddCourse(r.Context(), orchestrators.AddCourseInput{
			Name:        page.NewCourse.Name,
			Description: page.NewCourse.Description,
		}, orchestrators.AddCourseDeps{Courses: s.stores.Courses})
		if err != nil {
			page.Error = apperr.UserMessage(err)
		} else {
			page.Success = "Course added successfully!"
			page.NewCourse = course.Course{}
		}
	}

	query := projections.GetAdminDashboardQuery{}
	if r.URL.Query().Get("view") == "enrollments" {
		query.RosterClassID = formID(r.URL.Query().Get("class_id"))
		if query.RosterClassID == 0 {
			s.renderLoadError(w, r, apperr.NotFound("class", 0))
			return
		}
	}
	deps := projections.GetAdminDashboardDeps{
		Catalog:  s.stores.Classes,
		Classes:  s.stores.Classes,
		Rosters:  s.stores.Enrollments,
		Contacts: s.stores.Contacts,
		Perf:     s.opts.Perf,
		Now:      s.now,
	}
	if s.stores.Outbox != nil {
		deps.Outbox = s.stores.Outbox
	}
	result, err := projections.QueryGetAdminDashboard(r.Context(), query, deps)
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}
	page.AdminDashboardResult = result
	s.render(w, r, http.StatusOK, "admin_dashboard.html", "Admin Dashboard", page)
}

// handleAdminContent handles GET (load) and POST (submit) for /admin/content?action=...
func (s *Server) handleAdminContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	action, ok := orchestrators.ParseContentAction(r.FormValue("action"))
	if !ok {
		s.render(w, r, http.StatusBadRequest, "error.html", "Bad Request",
			map[string]string{"Message": orchestrators.ErrInvalidAction.Error()})
		return
	}

	req := orchestrators.ContentRequest{
		Action:   action,
		Submit:   r.Method == http.MethodPost,
		ClassID:  formID(r.FormValue("class_id")),
		CourseID: formID(r.FormValue("course_id")),
		VideoID:  formID(r.FormValue("video_id")),
	}
	if req.Submit {
		req.Class = class.Class{
			Name: r.PostFormValue("class_name"),
			Date: r.PostFormValue("class_date"),
			Time: r.PostFormValue("class_time"),
			Link: r.PostFormValue("class_link"),
		}
		req.Course = course.Course{
			Name:        r.PostFormValue("course_name"),
			Description: r.PostFormValue("course_description"),
		}
		req.Video = video.Video{
			Title: r.PostFormValue("video_title"),
			URL:   r.PostFormValue("video_url"),
		}
	}

	page, err := orchestrators.ExecuteContentAction(r.Context(), req, orchestrators.ContentDeps{
		Courses: s.stores.Courses,
		Classes: s.stores.Classes,
		Videos:  s.stores.Videos,
	})
	if errors.Is(err, orchestrators.ErrInvalidAction) {
		s.render(w, r, http.StatusBadRequest, "error.html", "Bad Request", map[string]string{"Message": err.Error()})
		return
	}
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_content.html", contentTitle(page.Action), page)
}

func contentTitle(a orchestrators.ContentAction) string {
	switch a {
	case orchestrators.ActionEditClass:
		return "Edit Class"
	case orchestrators.ActionAddClass:
		return "Add Class"
	case orchestrators.ActionEditCourse:
		return "Edit Course"
	case orchestrators.ActionListVideos:
		return "Manage Videos"
	default:
		return "Video"
	}
}
