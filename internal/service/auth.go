// Package service holds the business logic between the HTTP handlers and
// the storage layer.
//
// AuthService owns identity resolution: it turns a provider profile into a
// canonical user via the injected repository and decides whether the
// resulting identity is trustworthy enough to log in. It knows nothing
// about HTTP, cookies, or chi — the handlers own those concerns.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/repro-api/internal/model"
	"github.com/sakif/repro-api/internal/repository"
)

// ErrUnknownIdentity is returned when a provider profile resolves to the
// collision-prone sentinel user ID. Logging such an identity in would let
// every broken profile share one account, so the flow fails instead.
var ErrUnknownIdentity = errors.New("service/auth: profile resolves to unknown identity")

// AuthService resolves OAuth profiles into canonical users.
type AuthService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAuthService creates an AuthService. The repository decides the
// persistence model (transient derivation or SQLite); the service is
// indifferent.
func NewAuthService(users repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// ResolveLogin handles the back half of the OAuth callback.
//
// It derives the canonical identity from the profile, rejects the sentinel
// identity, and runs find-or-create through the repository. The returned
// user carries the repository's timestamps.
func (s *AuthService) ResolveLogin(ctx context.Context, profile *model.OAuthProfile) (*model.User, error) {
	if profile == nil {
		return nil, fmt.Errorf("service/auth: profile must not be nil")
	}

	user := model.NewUserFromProfile(*profile)
	if user.ID == model.UnknownUserID {
		s.logger.Warn("rejecting login with unresolvable identity",
			slog.String("provider", profile.Provider),
			slog.String("providerUserID", profile.ProviderUserID),
		)
		return nil, ErrUnknownIdentity
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("nickname", user.Nickname),
		slog.String("provider", user.Provider),
	)

	return user, nil
}
