// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/notisblokk/notisblokk/internal/accounts"
	accountspg "github.com/notisblokk/notisblokk/internal/accounts/postgres"
	"github.com/notisblokk/notisblokk/internal/alerts"
	"github.com/notisblokk/notisblokk/internal/auth"
	authpg "github.com/notisblokk/notisblokk/internal/auth/postgres"
	"github.com/notisblokk/notisblokk/internal/config"
	"github.com/notisblokk/notisblokk/internal/httpapi"
	"github.com/notisblokk/notisblokk/internal/logging"
	"github.com/notisblokk/notisblokk/internal/notes"
	notespg "github.com/notisblokk/notisblokk/internal/notes/postgres"
	"github.com/notisblokk/notisblokk/internal/observability"
	"github.com/notisblokk/notisblokk/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the notisblokk HTTP server",
		Long: `Start the HTTP API server. Configuration is read from the config
file, then overridden by flags. The database URL falls back to the
DATABASE_URL environment variable.`,
		RunE: runServe,
	}

	// Flag defaults mirror config.Default so an untouched flag never
	// shadows a default during config layering.
	defaults := config.Default()
	cmd.Flags().String("listen-addr", defaults.ListenAddr, "HTTP API listen address")
	cmd.Flags().String("log-format", defaults.LogFormat, "log format (json or text)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection string")
	cmd.Flags().String("metrics-addr", defaults.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().Int("hash-concurrency", 0, "max concurrent password hashing operations (0 = one per CPU)")
	cmd.Flags().Duration("sweep-interval", defaults.SweepInterval, "expired session sweep interval")
	cmd.Flags().Bool("auto-migrate", defaults.AutoMigrate, "apply pending schema migrations at startup")

	return cmd
}

// services bundles everything the HTTP layer needs.
type services struct {
	gateway  *auth.Service
	accounts *accounts.Service
	notes    *notes.Service
	alerts   *alerts.Service
	sessions *auth.SessionStore
}

// buildServices wires repositories and services over the database pool.
func buildServices(pool store.Pool, hashConcurrency int) (*services, error) {
	hasher, err := auth.NewGatedHasher(auth.NewArgon2idHasher(), hashConcurrency)
	if err != nil {
		return nil, err
	}

	accountRepo := accountspg.NewAccountRepository(pool)
	sessionRepo := authpg.NewSessionRepository(pool)

	sessionStore, err := auth.NewSessionStore(sessionRepo)
	if err != nil {
		return nil, err
	}
	gateway, err := auth.NewService(accountRepo, sessionStore, hasher)
	if err != nil {
		return nil, err
	}
	accountService, err := accounts.NewService(accountRepo, hasher)
	if err != nil {
		return nil, err
	}
	noteService, err := notes.NewService(
		notespg.NewTagRepository(pool),
		notespg.NewStatusRepository(pool),
		notespg.NewNoteRepository(pool),
	)
	if err != nil {
		return nil, err
	}
	alertService, err := alerts.NewService(noteService)
	if err != nil {
		return nil, err
	}

	return &services{
		gateway:  gateway,
		accounts: accountService,
		notes:    noteService,
		alerts:   alertService,
		sessions: sessionStore,
	}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (flag, config file, or DATABASE_URL)")
	}

	logging.SetDefault("notisblokk", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.AutoMigrate {
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	app, err := buildServices(pool, cfg.HashConcurrency)
	if err != nil {
		return err
	}

	// Observability server is optional; without it sweeps still run but
	// are not counted.
	var metrics *observability.Metrics
	var obsServer *observability.Server
	var obsErrCh <-chan error
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err = obsServer.Start()
		if err != nil {
			return err
		}
		defer stopObservability(obsServer, logger)
		metrics = obsServer.Metrics()
	}

	var onSwept func(int64)
	if metrics != nil {
		onSwept = func(count int64) {
			metrics.SessionsSweptTotal.Add(float64(count))
		}
	}
	sweeper := auth.NewSweeper(app.sessions, cfg.SweepInterval, onSwept)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	router, err := httpapi.NewRouter(httpapi.RouterConfig{
		Gateway:  app.gateway,
		Accounts: app.accounts,
		Notes:    app.notes,
		Alerts:   app.alerts,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	httpErrCh := make(chan error, 1)
	go func() {
		if serveErr := httpSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			httpErrCh <- serveErr
		}
	}()

	logger.Info("server started", "addr", cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case serveErr := <-httpErrCh:
		return oops.Code("SERVER_FAILED").Wrap(serveErr)
	case obsErr, ok := <-obsErrCh:
		if ok && obsErr != nil {
			return oops.Code("SERVER_FAILED").Wrap(obsErr)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("server stopped")
	return nil
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func stopObservability(srv *observability.Server, logger *slog.Logger) {
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		logger.Warn("failed to stop observability server", "error", err)
	}
}
