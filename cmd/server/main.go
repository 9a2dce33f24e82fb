package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"Gramcache/internal/api/middleware"
	"Gramcache/internal/api/routes"
	"Gramcache/internal/config"
	"Gramcache/internal/core/audit"
	"Gramcache/internal/core/downloads"
	"Gramcache/internal/core/preferences"
	"Gramcache/internal/core/sessions"
	"Gramcache/internal/db/health"
	postgresRepo "Gramcache/internal/db/postgres"
	"Gramcache/internal/instagram"
	"Gramcache/internal/logger"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(cfg)
	logg.Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.HTTPPort).
		Msg("starting")

	tracker := health.NewTracker(logg)

	// The store is optional: without a DSN the service runs
	// extraction-only and every request still succeeds.
	var db *sql.DB
	var downloadRepo downloads.Repository
	var sessionRepo sessions.Repository
	var preferenceRepo preferences.Repository
	var auditor audit.Recorder

	if cfg.HasDatabase() {
		db, err = sql.Open("postgres", cfg.DSN())
		if err != nil {
			logg.Error().Err(err).Msg("failed to open database handle")
			tracker.MarkUnavailable(fmt.Sprintf("invalid DSN: %v", err))
			db = nil
		} else {
			db.SetMaxOpenConns(cfg.DBMaxOpenConns)
			db.SetMaxIdleConns(cfg.DBMaxIdleConns)
			db.SetConnMaxLifetime(cfg.DBConnLifetime)
			defer func() { _ = db.Close() }()

			downloadRepo = postgresRepo.NewDownloadRepository(db)
			sessionRepo = postgresRepo.NewSessionRepository(db)
			preferenceRepo = postgresRepo.NewPreferenceRepository(db)
			auditor = postgresRepo.NewAuditRepository(db)
		}
	} else {
		tracker.MarkUnavailable("no DATABASE_URL configured")
	}

	extractor := instagram.New(logg, instagram.WithTimeout(cfg.ExtractTimeout))

	var downloadOpts []downloads.ServiceOption
	var sessionOpts []sessions.ServiceOption
	var preferenceOpts []preferences.ServiceOption
	if auditor != nil {
		downloadOpts = append(downloadOpts, downloads.WithAuditor(auditor))
		sessionOpts = append(sessionOpts, sessions.WithAuditor(auditor))
		preferenceOpts = append(preferenceOpts, preferences.WithAuditor(auditor))
	}

	downloadService := downloads.NewService(downloadRepo, extractor, tracker, logg, downloadOpts...)
	sessionService := sessions.NewService(sessionRepo, tracker, logg, sessionOpts...)
	preferenceService := preferences.NewService(preferenceRepo, tracker, logg, preferenceOpts...)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	r.Use(rateLimiter.Middleware)

	routes.RegisterStatusRoutes(r, downloadService, tracker, cfg.ServiceName, logg)
	routes.RegisterDownloadRoutes(r, downloadService, logg)
	routes.RegisterSessionRoutes(r, sessionService, logg)
	routes.RegisterPreferenceRoutes(r, preferenceService, logg)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Probe the store after the listener is up; requests are served from
	// the availability flag while the probe runs.
	if db != nil {
		go probeStore(ctx, db, tracker, cfg)
	}

	select {
	case err := <-errCh:
		logg.Fatal().Err(err).Msg("http server failed")
	case <-ctx.Done():
		logg.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("graceful shutdown failed")
	}
	logg.Info().Msg("server stopped")
}

// probeStore pings the database and applies migrations, then flips the
// availability flag. It runs once; on failure the service simply stays
// extraction-only.
func probeStore(ctx context.Context, db *sql.DB, tracker *health.Tracker, cfg *config.Config) {
	probeCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
	defer cancel()

	if err := db.PingContext(probeCtx); err != nil {
		tracker.MarkUnavailable(fmt.Sprintf("ping failed: %v", err))
		return
	}

	if err := goose.SetDialect("postgres"); err != nil {
		tracker.MarkUnavailable(fmt.Sprintf("failed to set goose dialect: %v", err))
		return
	}
	if err := goose.Up(db, "internal/db/migrations"); err != nil {
		tracker.MarkUnavailable(fmt.Sprintf("migrations failed: %v", err))
		return
	}

	tracker.MarkAvailable()
}

// loadEnvFiles loads .env files when present, letting them override the
// inherited environment for local development.
func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
