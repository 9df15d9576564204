// Package auth implements the GitHub OAuth flow primitives and the
// cookie-backed session carrier.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
//  1. The server redirects the browser to GitHub's authorization endpoint
//     with the client ID, requested scope, and a random state value.
//  2. The user approves (or denies) the request on GitHub.
//  3. GitHub redirects back to the callback URL with a short-lived code.
//  4. The server exchanges the code for an access token (server-to-server,
//     using the client secret — the token never reaches the browser).
//  5. The server calls the GitHub API with the token to fetch the profile,
//     and the email list when the profile hides the primary email.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/sakif/repro-api/internal/model"
)

// ProviderGitHub is the only supported OAuth provider.
const ProviderGitHub = "github"

// requestTimeout bounds each outbound call to GitHub. The source of truth
// for a login attempt is the round-trip itself, so a hung provider call
// should fail the attempt rather than hold the request open.
const requestTimeout = 5 * time.Second

// githubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal what we need.
type githubUser struct {
	ID        int64  `json:"id"`         // GitHub's numeric user ID — stable, never changes
	Login     string `json:"login"`      // GitHub username, e.g. "octocat"
	Name      string `json:"name"`       // Display name (may be empty)
	Email     string `json:"email"`      // Primary email (empty if hidden in GitHub settings)
	AvatarURL string `json:"avatar_url"` // Profile picture URL
}

// emailEntry is one element of the GitHub /user/emails response.
type emailEntry struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization
// Code flow and resolves the raw API payloads into an OAuthProfile.
type GitHubProvider struct {
	config     *oauth2.Config
	apiBaseURL string
}

// NewGitHubProvider creates a GitHubProvider with the given credentials.
//
// callbackURL must exactly match the "Authorization callback URL" of the
// registered OAuth App. The "user:email" scope grants access to the email
// list endpoint used when the profile email is hidden.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBaseURL: "https://api.github.com",
	}
}

// NewGitHubProviderForTest creates a provider pointed at arbitrary OAuth and
// API endpoints. Tests use this with an httptest server standing in for
// GitHub.
func NewGitHubProviderForTest(cfg *oauth2.Config, apiBaseURL string) *GitHubProvider {
	return &GitHubProvider{config: cfg, apiBaseURL: apiBaseURL}
}

// AuthURL returns the provider authorization URL to redirect the browser to.
//
// The state value is generated per login attempt and carried in the session;
// the callback handler compares it against the state GitHub echoes back
// before exchanging the code (CSRF protection).
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: it trades the authorization code for an
// access token, fetches the user profile, and resolves the email fallback
// chain. The returned profile has all fallbacks already applied.
//
// A failed email-list fetch is not fatal — the profile simply keeps an empty
// email, which is a valid state (the user may have no verified address).
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*model.OAuthProfile, error) {
	exchangeCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	token, err := p.config.Exchange(exchangeCtx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, token)

	user, err := p.fetchUser(ctx, client)
	if err != nil {
		return nil, err
	}

	email := user.Email
	if email == "" {
		// Second outbound call, made only when the profile hides the email.
		email = p.fetchPrimaryEmail(ctx, client)
	}

	providerUserID := ""
	if user.ID != 0 {
		providerUserID = strconv.FormatInt(user.ID, 10)
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &model.OAuthProfile{
		Provider:       ProviderGitHub,
		ProviderUserID: providerUserID,
		Name:           name,
		Email:          email,
		Nickname:       user.Login,
		AvatarURL:      user.AvatarURL,
	}, nil
}

// fetchUser calls the GitHub /user endpoint with the authenticated client.
func (p *GitHubProvider) fetchUser(ctx context.Context, client *http.Client) (*githubUser, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.apiBaseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building /user request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}

	return &user, nil
}

// fetchPrimaryEmail calls /user/emails and scans for the primary address.
// Any failure yields an empty string rather than an error.
func (p *GitHubProvider) fetchPrimaryEmail(ctx context.Context, client *http.Client) string {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.apiBaseURL+"/user/emails", nil)
	if err != nil {
		return ""
	}

	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var emails []emailEntry
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return ""
	}

	return primaryEmail(emails)
}

// primaryEmail returns the first entry marked primary, else the first entry,
// else "". The scan is order-sensitive on purpose: GitHub lists addresses in
// the order the user registered them, and that order is the tie-breaker.
func primaryEmail(emails []emailEntry) string {
	for _, entry := range emails {
		if entry.Primary {
			return entry.Email
		}
	}
	if len(emails) > 0 {
		return emails[0].Email
	}
	return ""
}
