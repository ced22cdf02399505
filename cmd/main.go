package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "adengine/internal/adapter/http"
	"adengine/internal/adapter/postgres"
	redisadapter "adengine/internal/adapter/redis"
	"adengine/internal/adapter/usecase"
	"adengine/internal/config"
	"adengine/internal/core/port"
	"adengine/internal/db"

	memstore "adengine/internal/adapter/memory"
)

// main is the entry point of the ad decision engine. It loads
// configuration, optionally runs database migrations and seed data,
// initializes the database pool, the frequency counter backend and the
// auction engine, then starts the HTTP server. On receiving a
// termination signal it gracefully shuts down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub-config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.RunSeed {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("seed data loaded")
		}
	}

	// Pick the frequency counter backend. Postgres is the durable
	// default; redis shares counters across processes with lower
	// latency; memory is single-process only.
	var freq port.FrequencyStore
	switch cfg.Frequency.Backend {
	case "redis":
		store, err := redisadapter.NewFrequencyStore(ctx, cfg.Redis)
		if err != nil {
			logger.Error("redis connection error", slog.Any("error", err))
			os.Exit(1)
		}
		defer store.Close()
		freq = store
	case "memory":
		logger.Warn("using in-memory frequency counters; caps do not hold across processes")
		freq = memstore.NewFrequencyStore()
	default:
		freq = postgres.NewFrequencyStore(pool, cfg.Psql.QueryTimeout)
	}

	repo := postgres.NewAuctionRepository(pool, cfg.Psql.QueryTimeout)
	engine := usecase.NewAuctionEngine(
		repo,
		freq,
		usecase.NewRuleBasedOptimizer(),
		cfg.Frequency.Caps(),
		cfg.Auction,
		logger,
	)

	handler := httpadapter.NewHandler(engine, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
