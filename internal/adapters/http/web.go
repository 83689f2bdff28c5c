package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"elearning/internal/adapters/http/middleware"
	"elearning/internal/adapters/http/perf"
	adminStore "elearning/internal/adapters/storage/admin"
	classStore "elearning/internal/adapters/storage/class"
	contactStore "elearning/internal/adapters/storage/contact"
	courseStore "elearning/internal/adapters/storage/course"
	enrollmentStore "elearning/internal/adapters/storage/enrollment"
	outboxStore "elearning/internal/adapters/storage/outbox"
	videoStore "elearning/internal/adapters/storage/video"
)

// Stores holds all storage dependencies.
type Stores struct {
	Courses     courseStore.Store
	Classes     classStore.Store
	Videos      videoStore.Store
	Enrollments enrollmentStore.Store
	Admins      adminStore.Store
	Contacts    contactStore.Store
	Outbox      outboxStore.Store // optional; no emails are queued when nil
}

// Options configures the HTTP surface.
type Options struct {
	CSRFKey        []byte // 32 bytes
	SessionKey     []byte // 32 or 64 bytes, signs the video grant cookie
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int // requests per second per client IP
	SlowRequestMs  int
	SupportEmail   string
	Perf           *perf.Collector
	// Done stops background housekeeping when closed.
	Done <-chan struct{}
}

// Server owns the per-process HTTP state: sessions, grants, templates.
type Server struct {
	stores   Stores
	opts     Options
	sessions *middleware.SessionStore
	grants   *middleware.GrantStore
	limiter  *middleware.RateLimiter
	views    *renderer
	now      func() time.Time
	newID    func() string
}

// NewServer validates options and parses the embedded templates.
// PRE: stores are non-nil except Outbox
// POST: returns a Server ready to serve Handler()
func NewServer(stores Stores, opts Options) (*Server, error) {
	if len(opts.CSRFKey) != 32 {
		return nil, errors.New("csrf key must be 32 bytes")
	}
	if n := len(opts.SessionKey); n != 32 && n != 64 {
		return nil, errors.New("session key must be 32 or 64 bytes")
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}

	sessions := middleware.NewSessionStore()
	sessions.Secure = opts.SecureCookies
	limiter := middleware.NewRateLimiter(opts.RateLimit, time.Second)
	if opts.Done != nil {
		limiter.StartCleanup(opts.Done)
	}

	return &Server{
		stores:   stores,
		opts:     opts,
		sessions: sessions,
		grants:   middleware.NewGrantStore(opts.SessionKey, opts.SecureCookies),
		limiter:  limiter,
		views:    views,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}, nil
}

// Handler wires routes and middleware.
// Order, outer to inner: Timing -> RateLimit -> SecurityHeaders -> CSRF -> Visit -> mux.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.routes(),
		middleware.Visit(s.sessions, s.grants),
		middleware.CSRF(s.opts.CSRFKey, s.opts.SecureCookies, s.opts.TrustedOrigins),
		middleware.SecurityHeaders,
		middleware.RateLimit(s.limiter),
		middleware.Timing(s.opts.Perf, s.opts.SlowRequestMs),
	)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS())))

	mux.HandleFunc("/{$}", s.handleHome)
	mux.HandleFunc("/catalog", s.handleCatalog)
	mux.HandleFunc("/enroll", s.handleEnroll)
	mux.HandleFunc("/videos", s.handleVideos)
	mux.HandleFunc("/contact", s.handleContact)

	mux.HandleFunc("/admin/login", s.handleAdminLogin)
	mux.HandleFunc("/admin/logout", s.handleAdminLogout)
	mux.Handle("/admin", middleware.RequireAdmin(http.HandlerFunc(s.handleAdminDashboard)))
	mux.Handle("/admin/content", middleware.RequireAdmin(http.HandlerFunc(s.handleAdminContent)))

	mux.HandleFunc("/", s.handleNotFound)
	return mux
}
