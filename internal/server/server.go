// Package server wires handlers, middleware, and routes into an HTTP
// server.
//
// This is the composition root below main: it builds the session store, the
// OAuth provider, and every handler, and decides which URL maps to which
// handler. main only supplies configuration, the logger, and the user
// repository (whose lifecycle — open/close — main owns).
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/repro-api/internal/auth"
	"github.com/sakif/repro-api/internal/config"
	"github.com/sakif/repro-api/internal/handler"
	"github.com/sakif/repro-api/internal/middleware"
	"github.com/sakif/repro-api/internal/repository"
	"github.com/sakif/repro-api/internal/service"
)

// Server owns the router and the HTTP listener lifecycle.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
}

// New assembles the dependency graph and registers all routes.
//
// When GitHub credentials are missing the OAuth provider stays nil; the
// auth routes are still registered and answer 503, so a misconfigured
// deployment is observable instead of silently routeless.
func New(cfg *config.Config, logger *slog.Logger, users repository.UserRepository) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	sessions := auth.NewSessionStore(cfg.SessionSecret, cfg.SessionName, cfg.SecureCookies())

	var provider handler.OAuthProvider
	if cfg.OAuthConfigured() {
		provider = auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)
	} else {
		logger.Warn("GitHub OAuth disabled; set GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET")
	}

	authService := service.NewAuthService(users, logger)

	authHandler := handler.NewAuthHandler(provider, sessions, authService, cfg.FrontendURL, logger)
	paperHandler := handler.NewPaperHandler(logger)
	challengeHandler := handler.NewChallengeHandler(logger)
	submissionHandler := handler.NewSubmissionHandler(logger)
	consoleHandler := handler.NewConsoleHandler(logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Recoverer(logger))
	s.router.Use(middleware.Logger(logger))
	s.router.Use(cors.Handler(s.corsOptions()))

	s.router.Get("/auth/{provider}", authHandler.HandleStart)
	s.router.Get("/auth/{provider}/callback", authHandler.HandleCallback)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/session", authHandler.HandleSession)
		r.Post("/papers", paperHandler.HandleUpload)
		r.Get("/papers/{id}", paperHandler.HandleStatus)
		r.Get("/challenges/{paper_id}", challengeHandler.HandleSpec)
		r.Post("/challenges/{paper_id}/template", challengeHandler.HandleTemplate)
		r.Post("/submissions", submissionHandler.HandleUpload)
		r.Get("/ws/console/{submission_id}", consoleHandler.HandleConsole)
	})

	return s
}

// Handler exposes the router, mainly for tests driving the full stack
// through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// corsOptions translates the configured origin list into the CORS policy.
// A "*" origin allows everyone but must disable credentials — browsers
// reject the combination — so cookie-authenticated frontends need an
// explicit origin list.
func (s *Server) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		MaxAge:           86400,
		AllowCredentials: true,
	}
	if s.config.AllowAllOrigins() {
		opts.AllowedOrigins = []string{"*"}
		opts.AllowCredentials = false
	} else {
		opts.AllowedOrigins = s.config.CORSOrigins
	}
	return opts
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("api server starting",
			slog.String("addr", s.config.Addr),
			slog.String("public_url", s.config.PublicURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
