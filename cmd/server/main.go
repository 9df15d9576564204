// Package main is the entry point for the repro API server.
//
// main stays minimal: read configuration, build the logger, pick the user
// store, hand everything to internal/server. All actual behavior lives in
// the internal packages so it can be tested without running a binary.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/repro-api/internal/config"
	"github.com/sakif/repro-api/internal/repository"
	"github.com/sakif/repro-api/internal/repository/sqlite"
	"github.com/sakif/repro-api/internal/repository/transient"
	"github.com/sakif/repro-api/internal/server"
)

func main() {
	// Structured JSON lines on stdout; every request and error goes
	// through this logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("SESSION_SECRET not set; using insecure default")
	}

	// DB_PATH decides the persistence model: unset → identities are
	// derived per login and never stored; set → SQLite-backed users.
	var users repository.UserRepository = transient.New()
	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(cfg.DBPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}

		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			logger.Error("failed to open database",
				slog.String("path", cfg.DBPath),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		defer db.Close()
		users = db

		logger.Info("using sqlite user store", slog.String("path", cfg.DBPath))
	} else {
		logger.Warn("DB_PATH not set; user identities are not persisted")
	}

	srv := server.New(cfg, logger, users)

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
