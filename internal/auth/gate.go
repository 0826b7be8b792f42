package auth

import (
	"net/http"
	"net/url"

	"gorm.io/gorm"

	"github.com/jokehub-dev/jokehub/internal/models"
	"github.com/jokehub-dev/jokehub/internal/session"
)

// loginPath is where unauthenticated requests are sent.
const loginPath = "/login"

// Access is the discriminated result of RequireUserID: either an authorized
// user id or the redirect target the HTTP layer must respond with. Exactly
// one of the two fields is set.
type Access struct {
	UserID     string
	RedirectTo string
}

// Authorized reports whether the request carried a valid session.
func (a Access) Authorized() bool {
	return a.UserID != ""
}

// Lookup classifies the outcome of resolving the session to a user record.
type Lookup int

const (
	// LookupAnonymous means the request carried no valid session.
	LookupAnonymous Lookup = iota
	// LookupFound means the session resolved to an existing user.
	LookupFound
	// LookupStale means the session references a user that no longer
	// exists; the caller must destroy the session and redirect to login.
	LookupStale
)

// Gate enforces login requirements on protected operations. Its reads are
// side-effect-free: forced logout on a stale session is carried out by the
// caller, not from inside the lookup.
type Gate struct {
	db       *gorm.DB
	sessions *session.Store
}

// NewGate creates a gate over the given datastore and session store.
func NewGate(db *gorm.DB, sessions *session.Store) *Gate {
	return &Gate{db: db, sessions: sessions}
}

// CurrentUserID returns the authenticated user's id, or "" when the request
// carries no valid session. It never fails: a missing, tampered, or expired
// cookie is simply anonymous.
func (g *Gate) CurrentUserID(r *http.Request) string {
	return g.sessions.Get(r).Get(userIDKey)
}

// RequireUserID checks the request's session and returns either the user id
// or the login redirect carrying the return path. fallback overrides the
// return path; when empty, the request's own path is used.
func (g *Gate) RequireUserID(r *http.Request, fallback string) Access {
	if id := g.CurrentUserID(r); id != "" {
		return Access{UserID: id}
	}

	redirectTo := fallback
	if redirectTo == "" {
		redirectTo = r.URL.Path
	}
	params := url.Values{}
	params.Set("redirectTo", redirectTo)
	return Access{RedirectTo: loginPath + "?" + params.Encode()}
}

// CurrentUser resolves the session to its user record. A session pointing
// at a deleted user reports LookupStale so the caller can force a logout;
// datastore errors are treated the same way rather than surfaced, since the
// only safe response to an unresolvable session is to end it.
func (g *Gate) CurrentUser(r *http.Request) (*models.User, Lookup) {
	userID := g.CurrentUserID(r)
	if userID == "" {
		return nil, LookupAnonymous
	}

	var user models.User
	if err := models.FindByID(g.db, userID, &user); err != nil {
		// A deleted user and a failing datastore end the session the same
		// way; neither is surfaced to route code.
		return nil, LookupStale
	}
	return &user, LookupFound
}

// Logout returns the session-clearing cookie and the post-logout redirect
// target.
func (g *Gate) Logout() (*http.Cookie, string) {
	return g.sessions.Destroy(), loginPath
}
