package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/sessions"

	"elearning/internal/domain/access"
)

// GrantTTL bounds how long a proven enrollment unlocks a course's videos.
const GrantTTL = 2 * time.Hour

const (
	grantCookieName = "elearning_visitor"
	grantKeyPrefix  = "video_grant_"
)

// GrantStore keeps per-course video grants in a signed cookie.
type GrantStore struct {
	cookies *sessions.CookieStore
}

// NewGrantStore creates a grant store signing cookies with key.
// PRE: len(key) is 32 or 64
func NewGrantStore(key []byte, secure bool) *GrantStore {
	cs := sessions.NewCookieStore(key)
	cs.MaxAge(int(GrantTTL.Seconds()))
	cs.Options.Path = "/"
	cs.Options.HttpOnly = true
	cs.Options.Secure = secure
	cs.Options.SameSite = http.SameSiteLaxMode
	return &GrantStore{cookies: cs}
}

// Load returns the grants carried by r. A missing, expired or tampered cookie yields none.
func (g *GrantStore) Load(r *http.Request) map[int64]string {
	sess, err := g.cookies.Get(r, grantCookieName)
	if err != nil {
		slog.Debug("visitor_cookie_rejected", "error", err.Error())
	}
	out := make(map[int64]string)
	for k, v := range sess.Values {
		key, ok := k.(string)
		if !ok || !strings.HasPrefix(key, grantKeyPrefix) {
			continue
		}
		courseID, err := strconv.ParseInt(strings.TrimPrefix(key, grantKeyPrefix), 10, 64)
		email, isString := v.(string)
		if err != nil || !isString {
			continue
		}
		out[courseID] = email
	}
	return out
}

// Save writes v's grants to the response, restarting the cookie lifetime.
// POST: the cookie holds exactly v's grants
func (g *GrantStore) Save(w http.ResponseWriter, r *http.Request, v access.Visitor) error {
	sess, _ := g.cookies.Get(r, grantCookieName)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	for courseID, email := range v.Grants() {
		sess.Values[grantKeyPrefix+strconv.FormatInt(courseID, 10)] = email
	}
	return sess.Save(r, w)
}
