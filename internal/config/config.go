// Package config loads server configuration from environment variables.
//
// CONFIGURATION APPROACH:
// All configuration comes from the environment (twelve-factor style), with a
// .env file honoured for local development via godotenv. The env struct tags
// are parsed by caarlos0/env, which gives us typed fields and defaults in one
// place instead of scattered os.Getenv calls.
//
// Derived values (the GitHub callback URL, the CORS origin list) are filled
// in by Load after parsing, so the rest of the application never has to know
// which values were explicit and which were defaulted.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every recognized server option.
//
// CORSOrigins is comma-separated; a literal "*" entry switches the CORS
// middleware to allow-all mode, which in turn disables credentialed CORS
// (browsers refuse the combination of "*" and credentials).
type Config struct {
	Addr          string   `env:"ADDR" envDefault:":8080"`
	PublicURL     string   `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	FrontendURL   string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	SessionName   string   `env:"SESSION_NAME" envDefault:"repro-auth"`
	SessionSecret string   `env:"SESSION_SECRET"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:","`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`

	// DBPath is optional. When set, users are persisted in a SQLite
	// database; when empty, identities are derived per login and never
	// stored.
	DBPath string `env:"DB_PATH"`
}

// DefaultSessionSecret is used when SESSION_SECRET is unset. It exists so
// the server still boots in local development; callers should log a warning
// when they see it in use.
const DefaultSessionSecret = "dev-insecure-secret"

// Load reads the environment (and an optional .env file) into a Config.
func Load() (*Config, error) {
	// The .env file is optional; a missing file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	cfg.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = DefaultSessionSecret
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = cfg.PublicURL + "/auth/github/callback"
	}

	cfg.CORSOrigins = normalizeOrigins(cfg.CORSOrigins)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.FrontendURL}
	}

	return &cfg, nil
}

// SecureCookies reports whether session cookies should carry the Secure
// flag. Tied to the public URL scheme: https deployment → Secure cookies.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.PublicURL, "https://")
}

// AllowAllOrigins reports whether CORS_ORIGINS contained "*".
func (c *Config) AllowAllOrigins() bool {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// OAuthConfigured reports whether GitHub OAuth credentials are present.
// Without them the auth routes respond 503 instead of redirecting.
func (c *Config) OAuthConfigured() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// normalizeOrigins trims whitespace and trailing slashes and drops empty
// entries, so " https://app.example.com/ " matches the Origin header form.
func normalizeOrigins(origins []string) []string {
	var out []string
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed != "*" {
			trimmed = strings.TrimRight(trimmed, "/")
		}
		out = append(out, trimmed)
	}
	return out
}
