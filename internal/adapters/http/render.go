package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"elearning/internal/adapters/http/middleware"
	"elearning/internal/domain/access"
	"elearning/internal/domain/apperr"
	"elearning/internal/domain/course"
	"elearning/internal/domain/user"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFiles embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// fieldLimits mirrors the max= validation tags so browsers stop input early.
var fieldLimits = map[string]int{
	"course_name":        course.MaxNameLength,
	"course_description": course.MaxDescriptionLength,
	"email":              user.MaxEmailLength,
	"phone":              user.MaxPhoneLength,
}

var funcs = template.FuncMap{
	"maxlen": func(field string) int { return fieldLimits[field] },
	"markdown": renderMarkdown,
	"invalid": func(fields []string, name string) bool {
		return slices.Contains(fields, name)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"ms": func(v float64) string { return fmt.Sprintf("%.1f ms", v) },
}

var pages = []string{
	"home.html",
	"catalog.html",
	"enroll.html",
	"videos.html",
	"contact.html",
	"admin_login.html",
	"admin_dashboard.html",
	"admin_content.html",
	"error.html",
}

// renderer holds one parsed template set per page, each layered on the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = clone
	}
	return r, nil
}

// view is what every page template receives.
type view struct {
	Title     string
	Visitor   access.Visitor
	CSRFField template.HTML
	Data      any
}

// render executes the page into a buffer first so a template failure never
// sends a half-written 200.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tpl, ok := s.views.pages[page]
	if !ok {
		internalError(w, fmt.Errorf("unknown page %q", page))
		return
	}
	var buf bytes.Buffer
	err := tpl.Execute(&buf, view{
		Title:     title,
		Visitor:   middleware.VisitorFromContext(r.Context()),
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	})
	if err != nil {
		internalError(w, fmt.Errorf("render %s: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// TechnicalDifficulties is shown when a page cannot load its data.
const TechnicalDifficulties = "We are experiencing technical difficulties. Please try again later."

// renderLoadError renders the terminal page for an error that prevented a
// page from loading at all.
func (s *Server) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	status, title, message := http.StatusServiceUnavailable, "Unavailable", TechnicalDifficulties
	switch {
	case apperr.IsNotFound(err):
		status, title, message = http.StatusNotFound, "Not Found", err.Error()
	case apperr.IsValidation(err):
		status, title, message = http.StatusBadRequest, "Bad Request", err.Error()
	}
	s.render(w, r, status, "error.html", title, map[string]string{"Message": message})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error.html", "Not Found", map[string]string{"Message": "Page not found."})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}
