package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	store := NewSessionStore("test-session-secret", "test-session", false)

	// Write values and capture the Set-Cookie from the response.
	r := httptest.NewRequest(http.MethodGet, "/auth/github", nil)
	w := httptest.NewRecorder()

	session, err := store.Get(r)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	session.Values[SessionKeyRedirectPath] = "/dash"
	session.Values[SessionKeyState] = "state-123"
	if err := session.Save(r, w); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Save() set no cookies")
	}
	cookie := cookies[0]
	if !cookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", cookie.SameSite)
	}

	// Read the values back from a second request carrying the cookie.
	r2 := httptest.NewRequest(http.MethodGet, "/auth/github/callback", nil)
	r2.AddCookie(cookie)

	session2, err := store.Get(r2)
	if err != nil {
		t.Fatalf("Get() on second request error = %v", err)
	}
	if got := SessionString(session2, SessionKeyRedirectPath); got != "/dash" {
		t.Errorf("redirect_path = %q, want %q", got, "/dash")
	}
	if got := PopSessionString(session2, SessionKeyState); got != "state-123" {
		t.Errorf("state = %q, want %q", got, "state-123")
	}
	// Pop removes the key.
	if got := SessionString(session2, SessionKeyState); got != "" {
		t.Errorf("state after pop = %q, want empty", got)
	}
}

func TestSessionTamperedCookie(t *testing.T) {
	store := NewSessionStore("test-session-secret", "test-session", false)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	r.AddCookie(&http.Cookie{Name: "test-session", Value: "forged-value"})

	session, err := store.Get(r)
	if err == nil {
		t.Log("Get() accepted an unsigned cookie without error; values must still be empty")
	}
	if session == nil {
		t.Fatal("Get() returned nil session")
	}
	if got := SessionString(session, SessionKeyUserID); got != "" {
		t.Errorf("user_id from forged cookie = %q, want empty", got)
	}
}

func TestSessionHelpersNilSafe(t *testing.T) {
	if got := SessionString(nil, SessionKeyUserID); got != "" {
		t.Errorf("SessionString(nil) = %q, want empty", got)
	}
	if got := PopSessionString(nil, SessionKeyUserID); got != "" {
		t.Errorf("PopSessionString(nil) = %q, want empty", got)
	}
}
