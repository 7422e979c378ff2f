package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fakecord/fakecord-api/internal/auditlog"
	"github.com/fakecord/fakecord-api/internal/db"
	"github.com/fakecord/fakecord-api/internal/discordapi"
	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/reqctx"
	"github.com/fakecord/fakecord-api/internal/sweeper"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
	"github.com/fakecord/fakecord-api/internal/testcontrol"
)

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	// Configure structured logging
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.With().Str("service", "fakecord-api").Logger()

	// Pretty logging for local dev (only when explicitly set to "dev")
	if env("ENV", "") == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	ctx := context.Background()

	pgURL := env("DATABASE_URL", "")
	if pgURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	pool, err := db.Open(ctx, pgURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	testPrefix := env("TEST_PREFIX", "/_test")
	if !testcontrol.ValidatePrefix(testPrefix) {
		log.Fatal().Str("test_prefix", testPrefix).Msg("TEST_PREFIX must not collide with the reserved /__ prefix")
	}

	store := tenantstore.New(pool)

	discordSrv := discordapi.New(store)
	testSrv := testcontrol.New(store)

	sweep := sweeper.New(store, nil)
	sweepExpr := env("SWEEP_INTERVAL_CRON", "0 * * * *")
	sweepCron, err := sweep.StartCron(ctx, sweepExpr)
	if err != nil {
		log.Fatal().Err(err).Str("cron", sweepExpr).Msg("invalid sweep cron expression")
	}
	defer sweepCron.Stop()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(reqctx.CorrelationMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auditlog.Middleware(store))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	discordSrv.Routes(r)
	testSrv.Routes(r, testPrefix)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusNotFound, "404: Not Found")
	})

	port := env("PORT", "8080")
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("server stopped")
}
