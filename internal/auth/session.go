package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// Session value keys. The session is a small key-value map carried in a
// signed cookie; these are the only keys the application writes.
const (
	SessionKeyUserID       = "user_id"
	SessionKeyProvider     = "provider"
	SessionKeyName         = "name"
	SessionKeyEmail        = "email"
	SessionKeyRedirectPath = "redirect_path" // write-once at initiate, popped at callback
	SessionKeyState        = "oauth_state"   // CSRF state, same lifecycle as redirect_path
)

// sessionMaxAge keeps a login valid for 30 days; there is no explicit
// logout flow, so expiry is the only way a session ends.
const sessionMaxAge = 30 * 24 * time.Hour

// SessionStore wraps a gorilla CookieStore with the application's cookie
// policy. The cookie is signed (HMAC) with the session secret, so clients
// can read their session values but cannot forge them.
type SessionStore struct {
	store *sessions.CookieStore
	name  string
}

// NewSessionStore builds the cookie-backed session carrier.
// secure should be true when the public URL is https; SameSite stays Lax so
// the cookie survives the top-level redirect back from GitHub.
func NewSessionStore(secret, name string, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store, name: name}
}

// Get returns the request's session, or a fresh one if the cookie is
// missing or fails signature verification. The error is informational —
// gorilla always hands back a usable session.
func (s *SessionStore) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, s.name)
}

// SessionString reads a string value from the session, treating missing
// keys and non-string values as empty.
func SessionString(session *sessions.Session, key string) string {
	if session == nil {
		return ""
	}
	value, _ := session.Values[key].(string)
	return value
}

// PopSessionString reads and removes a value in one step, for the
// write-once, read-once keys (redirect path, OAuth state). The caller must
// still Save the session for the removal to reach the cookie.
func PopSessionString(session *sessions.Session, key string) string {
	value := SessionString(session, key)
	if session != nil {
		delete(session.Values, key)
	}
	return value
}
