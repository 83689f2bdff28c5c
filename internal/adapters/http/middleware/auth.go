package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"elearning/internal/domain/access"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const visitorContextKey contextKey = "visitor"

// AdminSessionTTL is the absolute lifetime of an admin session.
const AdminSessionTTL = 12 * time.Hour

const sessionCookieName = "elearning_session"

// Session represents an authenticated admin session.
type Session struct {
	AdminID   int64
	Username  string
	FullName  string
	CreatedAt time.Time
}

// SessionStore is an in-memory admin session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time

	// Secure marks the session cookie Secure (HTTPS only).
	Secure bool
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      AdminSessionTTL,
		now:      time.Now,
	}
}

// Create stores a new session and returns the token.
// PRE: adminID > 0
// POST: Session is stored, a random 256-bit hex token is returned
func (ss *SessionStore) Create(adminID int64, username, fullName string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		AdminID:   adminID,
		Username:  username,
		FullName:  fullName,
		CreatedAt: ss.now(),
	}
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if present and not expired; expired sessions are removed
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(session.CreatedAt) > ss.ttl {
		ss.Delete(token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Token returns the session token carried by r, if any.
func (ss *SessionStore) Token(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie sets the session cookie on the response.
func (ss *SessionStore) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   ss.Secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ss.ttl.Seconds()),
	})
}

// ClearCookie removes the session cookie.
func (ss *SessionStore) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   ss.Secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Visit returns middleware that builds the request's access.Visitor from the
// admin session cookie and the signed video-grant cookie.
// It does NOT block anonymous requests; use RequireAdmin for that.
func Visit(sessions *SessionStore, grants *GrantStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var admin *access.AdminIdentity
			if token := sessions.Token(r); token != "" {
				if s, ok := sessions.Get(token); ok {
					admin = &access.AdminIdentity{AdminID: s.AdminID, Username: s.Username, FullName: s.FullName}
				}
			}
			var granted map[int64]string
			if grants != nil {
				granted = grants.Load(r)
			}
			v := access.NewVisitor(admin, granted)
			next.ServeHTTP(w, r.WithContext(ContextWithVisitor(r.Context(), v)))
		})
	}
}

// RequireAdmin redirects anonymous requests to the login page.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !VisitorFromContext(r.Context()).IsAdmin() {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// VisitorFromContext returns the request's visitor; anonymous when none was set.
func VisitorFromContext(ctx context.Context) access.Visitor {
	v, ok := ctx.Value(visitorContextKey).(access.Visitor)
	if !ok {
		return access.NewVisitor(nil, nil)
	}
	return v
}

// ContextWithVisitor returns a context carrying v.
func ContextWithVisitor(ctx context.Context, v access.Visitor) context.Context {
	return context.WithValue(ctx, visitorContextKey, v)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
