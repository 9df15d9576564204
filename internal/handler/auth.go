package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/rs/xid"

	"github.com/sakif/repro-api/internal/apperror"
	"github.com/sakif/repro-api/internal/auth"
	"github.com/sakif/repro-api/internal/model"
	"github.com/sakif/repro-api/internal/service"
)

// OAuthProvider is the slice of auth.GitHubProvider the handler needs.
// Declared here so tests can swap in a stub without touching the network.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*model.OAuthProfile, error)
}

// AuthHandler drives the OAuth login flow and the session query.
//
// Per login attempt the flow is: start (remember redirect, send the browser
// to GitHub) → callback (verify state, exchange code, resolve identity,
// write session) → redirect to the frontend.
//
// FAILURE POSTURE:
// Any failure between receiving the callback and resolving the identity is
// logged and answered with a silent redirect to the frontend home page — an
// expired code or provider hiccup is routine, and an error page would only
// strand the user. No identity fields are written on a failed attempt.
type AuthHandler struct {
	provider    OAuthProvider // nil when GitHub credentials are not configured
	sessions    *auth.SessionStore
	service     *service.AuthService
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. provider may be nil; the start
// endpoint then answers 503 and the callback falls back to the silent
// home redirect.
func NewAuthHandler(
	provider OAuthProvider,
	sessions *auth.SessionStore,
	svc *service.AuthService,
	frontendURL string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		provider:    provider,
		sessions:    sessions,
		service:     svc,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// HandleStart begins the login flow.
//
// HTTP: GET /auth/{provider}?redirect=/some/path
//
// The sanitized redirect path and a fresh CSRF state are written to the
// session before anything can fail, so the session write is visible even on
// the 503 path. The error code for an unsupported provider is
// "missing_provider" — the label predates multi-provider plans and is kept
// for wire compatibility.
func (h *AuthHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "provider") != auth.ProviderGitHub {
		writeError(w, apperror.Validation("missing_provider", "oauth provider is required"))
		return
	}

	session, err := h.sessions.Get(r)
	if err != nil {
		// Undecodable cookie — gorilla hands back a fresh session; the old
		// one is unrecoverable anyway.
		h.logger.Warn("failed to load auth session", slog.String("error", err.Error()))
	}

	state := xid.New().String()
	session.Values[auth.SessionKeyRedirectPath] = auth.SanitizeRedirectPath(r.URL.Query().Get("redirect"))
	session.Values[auth.SessionKeyState] = state
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to persist auth session", slog.String("error", err.Error()))
	}

	if h.provider == nil {
		writeError(w, apperror.Unavailable("oauth_unavailable", "oauth not configured"))
		return
	}

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusFound)
}

// HandleCallback finishes the login flow.
//
// HTTP: GET /auth/{provider}/callback?code=xxx&state=yyy
//
// Steps: verify the state echoed by GitHub against the session, exchange
// the code for a resolved profile, resolve the canonical user, write the
// identity into the session, then redirect to the path remembered at start
// time (re-sanitized — it round-tripped through client-controlled state).
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "provider") != auth.ProviderGitHub {
		writeError(w, apperror.Validation("missing_provider", "oauth provider is required"))
		return
	}

	session, err := h.sessions.Get(r)
	if err != nil {
		h.logger.Warn("failed to load auth session", slog.String("error", err.Error()))
	}

	expectedState := auth.PopSessionString(session, auth.SessionKeyState)
	if expectedState == "" || r.URL.Query().Get("state") != expectedState {
		h.failLogin(w, r, session, "state mismatch", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" || h.provider == nil {
		h.failLogin(w, r, session, "missing authorization code", nil)
		return
	}

	profile, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.failLogin(w, r, session, "oauth exchange failed", err)
		return
	}

	user, err := h.service.ResolveLogin(r.Context(), profile)
	if err != nil {
		h.failLogin(w, r, session, "identity resolution failed", err)
		return
	}

	session.Values[auth.SessionKeyUserID] = user.ID
	session.Values[auth.SessionKeyProvider] = user.Provider
	session.Values[auth.SessionKeyName] = user.Name
	session.Values[auth.SessionKeyEmail] = user.Email

	// Defence in depth: the path was sanitized at start time, but it came
	// back out of client-held session state, so sanitize again.
	redirectPath := auth.SanitizeRedirectPath(auth.PopSessionString(session, auth.SessionKeyRedirectPath))

	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to persist auth session", slog.String("error", err.Error()))
	}

	http.Redirect(w, r, h.frontendURL+redirectPath, http.StatusFound)
}

// failLogin logs the reason and redirects to the frontend home page without
// writing any identity fields. The session is still saved so popped
// single-use values (state, redirect path) are cleared from the cookie.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, session *sessions.Session, reason string, err error) {
	attrs := []any{slog.String("reason", reason)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	h.logger.Warn("oauth callback failed", attrs...)

	if session != nil {
		if saveErr := session.Save(r, w); saveErr != nil {
			h.logger.Warn("failed to persist auth session", slog.String("error", saveErr.Error()))
		}
	}

	http.Redirect(w, r, h.frontendURL+auth.DefaultRedirectPath, http.StatusFound)
}

type sessionUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Provider string `json:"provider,omitempty"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
}

// HandleSession reports the current login state.
//
// HTTP: GET /api/v1/session
//
// Pure read — answers from the session cookie alone, no provider or store
// round-trip.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r)
	if err != nil {
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}

	userID := auth.SessionString(session, auth.SessionKeyUserID)
	if userID == "" {
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		User: &sessionUser{
			ID:       userID,
			Name:     auth.SessionString(session, auth.SessionKeyName),
			Email:    auth.SessionString(session, auth.SessionKeyEmail),
			Provider: auth.SessionString(session, auth.SessionKeyProvider),
		},
	})
}
