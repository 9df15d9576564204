// Package model defines the data structures used throughout the application.
package model

import "time"

// UnknownUserID is the sentinel identity produced when a provider profile
// is missing its provider name or provider user ID. Distinct broken
// profiles would all collide on this value, so the auth flow refuses to
// establish a session for it — it exists only to keep UserID total.
const UnknownUserID = "user_unknown"

// OAuthProfile is the canonicalized view of a provider's user payload,
// produced once per OAuth callback and never persisted.
//
// The fallback chains (display name → login handle, direct email → primary
// entry of the email list) have already been applied by the time a profile
// is constructed; consumers can use the fields as-is.
type OAuthProfile struct {
	Provider       string // fixed "github" for now
	ProviderUserID string // provider-assigned ID, stringified
	Name           string // display name, falls back to the login handle
	Email          string // resolved primary email, may be empty
	Nickname       string // login handle, e.g. "octocat"
	AvatarURL      string
}

// User is the canonical user identity derived from an OAuth profile.
//
// WHY A DERIVED STRING ID?
// The ID is a pure function of (provider, provider user ID) — see UserID.
// That keeps identity resolution deterministic across logins without
// requiring storage, and lets the persistent store adopt the same value as
// its primary key so both store implementations agree on identity.
type User struct {
	ID             string    `json:"id"             db:"id"`
	Provider       string    `json:"provider"       db:"provider"`
	ProviderUserID string    `json:"providerUserId" db:"provider_user_id"`
	Name           string    `json:"name"           db:"name"`
	Email          string    `json:"email"          db:"email"`
	Nickname       string    `json:"nickname"       db:"nickname"`
	AvatarURL      string    `json:"avatarUrl"      db:"avatar_url"`
	CreatedAt      time.Time `json:"createdAt"      db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt"      db:"updated_at"`
}

// UserID derives the canonical user ID for a provider identity.
// Same inputs always produce the same ID; if either component is empty,
// the UnknownUserID sentinel is returned instead.
func UserID(provider, providerUserID string) string {
	if provider == "" || providerUserID == "" {
		return UnknownUserID
	}
	return provider + ":" + providerUserID
}

// NewUserFromProfile builds a User from a resolved OAuth profile.
// Timestamps are left zero; the repository owns them (a transient store
// stamps resolution time, a persistent store preserves creation time).
func NewUserFromProfile(profile OAuthProfile) *User {
	return &User{
		ID:             UserID(profile.Provider, profile.ProviderUserID),
		Provider:       profile.Provider,
		ProviderUserID: profile.ProviderUserID,
		Name:           profile.Name,
		Email:          profile.Email,
		Nickname:       profile.Nickname,
		AvatarURL:      profile.AvatarURL,
	}
}
