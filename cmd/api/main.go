package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/maxirosso/tpo-sipii-back/internal/config"
	"github.com/maxirosso/tpo-sipii-back/internal/db"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
	"github.com/maxirosso/tpo-sipii-back/internal/seed"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		slog.Error("JWT_SECRET must be set in prod")
		os.Exit(1)
	}

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Run(cfg.DSN()); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Seed the card registry from the external catalog. A failed seed is not
	// fatal: the API still serves whatever cards exist.
	seeder := seed.New(repo.NewCardRepo(database), cfg.PokeAPIURL, cfg.SeedLimit)
	if err := seeder.RunIfEmpty(context.Background()); err != nil {
		slog.Error("card seeding failed", "error", err)
	}
	if cfg.SeedRefreshCron != "" {
		if _, err := seeder.Schedule(cfg.SeedRefreshCron); err != nil {
			slog.Error("seed refresh schedule failed", "error", err)
		}
	}

	r := newRouter(database, cfg)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
