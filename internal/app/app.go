// Package app wires configuration, storage, services, and transports into
// a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/rpshnkv/trainerbot/internal/adapter/postgres"
	answerrepo "github.com/rpshnkv/trainerbot/internal/adapter/postgres/answer"
	questionrepo "github.com/rpshnkv/trainerbot/internal/adapter/postgres/question"
	sessionrepo "github.com/rpshnkv/trainerbot/internal/adapter/postgres/session"
	"github.com/rpshnkv/trainerbot/internal/config"
	"github.com/rpshnkv/trainerbot/internal/service/catalog"
	"github.com/rpshnkv/trainerbot/internal/service/training"
	"github.com/rpshnkv/trainerbot/internal/source/csvfile"
	"github.com/rpshnkv/trainerbot/internal/transport/rest"
	"github.com/rpshnkv/trainerbot/internal/transport/telegram"
	"github.com/rpshnkv/trainerbot/migrations"
)

// Run is the application entry point. It loads configuration, connects to
// the database, applies migrations, builds the services, and runs the
// Telegram bot, the HTTP server, and the periodic catalog sync until ctx
// is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting trainerbot",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Any("suites", cfg.Catalog.Suites),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := migrate(ctx, pool, logger); err != nil {
		return err
	}

	// Storage and services.
	txManager := postgres.NewTxManager(pool)
	questions := questionrepo.New(pool)
	sessions := sessionrepo.New(pool)
	answers := answerrepo.New(pool)

	loader := csvfile.NewLoader(cfg.Catalog.Dir)
	catalogSvc := catalog.NewService(logger, questions, loader, txManager, cfg.Catalog.Suites)
	trainingSvc := training.NewService(logger, questions, sessions, answers, txManager)

	// Transports.
	bot, err := telegram.New(cfg.Telegram, trainingSvc, cfg.Catalog.Suites, logger)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	health := rest.NewHealthHandler(pool, catalogSvc, BuildVersion())
	syncHandler := rest.NewSyncHandler(catalogSvc, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      rest.NewRouter(health, syncHandler, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)

	go catalogSvc.RunPeriodic(ctx, cfg.Catalog.SyncInterval)

	go func() {
		errCh <- bot.Run(ctx)
	}()

	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = err
		}
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.String("error", err.Error()))
	}

	return runErr
}

// migrate applies the embedded schema migrations through a database/sql
// handle on top of the pgx pool. The handle holds no idle connections, so
// it is fine to leave it to the pool's lifetime.
func migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	start := time.Now()

	db := stdlib.OpenDBFromPool(pool)
	if err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	logger.Info("migrations applied", slog.Duration("took", time.Since(start)))

	return nil
}
