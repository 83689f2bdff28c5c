package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"elearning/internal/adapters/http/middleware"
	"elearning/internal/application/orchestrators"
	"elearning/internal/application/projections"
	"elearning/internal/domain/apperr"
	"elearning/internal/domain/class"
)

// formID parses a positive integer id; anything else is 0.
func formID(v string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// handleHome shows the student / instructor choice.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	s.render(w, r, http.StatusOK, "home.html", "Welcome", nil)
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	courses, err := projections.QueryGetCatalog(r.Context(), projections.GetCatalogDeps{Catalog: s.stores.Classes})
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "catalog.html", "Course Catalog", map[string]any{"Courses": courses})
}

type enrollPage struct {
	Class   class.Detail
	Form    orchestrators.EnrollInput
	Error   string
	Invalid []string
	Result  *orchestrators.EnrollResult
}

// handleEnroll handles GET (form) and POST (enroll) for /enroll?class_id=N
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	classID := formID(r.FormValue("class_id"))
	if classID == 0 {
		s.renderLoadError(w, r, apperr.NotFound("class", 0))
		return
	}
	detail, err := s.stores.Classes.GetDetail(r.Context(), classID)
	if err != nil {
		s.renderLoadError(w, r, apperr.Persistence("load class", err))
		return
	}
	page := enrollPage{Class: detail, Form: orchestrators.EnrollInput{ClassID: classID}}

	if r.Method == http.MethodPost {
		page.Form = orchestrators.EnrollInput{
			ClassID:  classID,
			FullName: r.PostFormValue("full_name"),
			Email:    r.PostFormValue("email"),
			Phone:    r.PostFormValue("phone"),
		}
		result, err := orchestrators.ExecuteEnroll(r.Context(), page.Form, orchestrators.EnrollDeps{
			Classes:     s.stores.Classes,
			Enrollments: s.stores.Enrollments,
			Outbox:      s.outbox(),
			Now:         s.now,
			GenerateID:  s.newID,
		})
		if err != nil {
			page.Error = apperr.UserMessage(err)
			var v *apperr.ValidationError
			if errors.As(err, &v) {
				page.Invalid = v.Fields
			}
		} else {
			page.Result = &result
			page.Form = orchestrators.EnrollInput{ClassID: classID}
		}
	}
	s.render(w, r, http.StatusOK, "enroll.html", "Enroll in "+detail.Name, page)
}

// videosPage keeps the posted email apart from the granted one.
type videosPage struct {
	Result projections.CourseVideosResult
	Email  string // form prefill
	Error  string
}

// handleVideos handles GET (gate or grid) and POST (verify enrollment) for /videos?course_id=N
func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	courseID := formID(r.FormValue("course_id"))
	visitor := middleware.VisitorFromContext(r.Context())
	page := videosPage{}

	if r.Method == http.MethodPost {
		page.Email = r.PostFormValue("email")
		granted, err := orchestrators.ExecuteVerifyVideoAccess(r.Context(), orchestrators.VerifyVideoAccessInput{
			Visitor:  visitor,
			CourseID: courseID,
			Email:    page.Email,
		}, orchestrators.VerifyVideoAccessDeps{Courses: s.stores.Courses, Enrollments: s.stores.Enrollments})
		switch {
		case apperr.IsNotFound(err) || apperr.IsPersistence(err):
			s.renderLoadError(w, r, err)
			return
		case err != nil:
			page.Error = apperr.UserMessage(err)
		default:
			if err := s.grants.Save(w, r, granted); err != nil {
				internalError(w, err)
				return
			}
			http.Redirect(w, r, "/videos?course_id="+strconv.FormatInt(courseID, 10), http.StatusSeeOther)
			return
		}
	}

	result, err := projections.QueryGetCourseVideos(r.Context(), projections.GetCourseVideosQuery{
		Visitor:  visitor,
		CourseID: courseID,
	}, projections.GetCourseVideosDeps{Courses: s.stores.Courses, Videos: s.stores.Videos})
	if err != nil {
		s.renderLoadError(w, r, err)
		return
	}
	page.Result = result
	s.render(w, r, http.StatusOK, "videos.html", result.Course.Name+" Videos", page)
}

type contactPage struct {
	Form    orchestrators.SubmitContactInput
	Error   string
	Success string
}

// handleContact handles GET (form) and POST (submit) for /contact
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	page := contactPage{}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		page.Form = orchestrators.SubmitContactInput{
			Name:    r.PostFormValue("sender_name"),
			Email:   r.PostFormValue("sender_email"),
			Subject: r.PostFormValue("subject"),
			Message: r.PostFormValue("message"),
		}
		_, err := orchestrators.ExecuteSubmitContact(r.Context(), page.Form, orchestrators.SubmitContactDeps{
			Contacts:     s.stores.Contacts,
			Outbox:       s.outbox(),
			SupportEmail: s.opts.SupportEmail,
			Now:          s.now,
			GenerateID:   s.newID,
		})
		if err != nil {
			page.Error = apperr.UserMessage(err)
		} else {
			page.Success = orchestrators.ContactSuccessMessage
			page.Form = orchestrators.SubmitContactInput{}
		}
	}
	s.render(w, r, http.StatusOK, "contact.html", "Contact Us", page)
}

// outbox returns the queue as an interface value that is nil when unset.
func (s *Server) outbox() orchestrators.OutboxQueue {
	if s.stores.Outbox == nil {
		return nil
	}
	return s.stores.Outbox
}
