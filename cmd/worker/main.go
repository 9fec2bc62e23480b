package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/config"
	"github.com/ghuser/itemstore/pkg/database"
	"github.com/ghuser/itemstore/pkg/events"
	"github.com/ghuser/itemstore/pkg/logger"
	"github.com/ghuser/itemstore/pkg/telemetry"
	"github.com/ghuser/itemstore/pkg/workflows"
	"github.com/ghuser/itemstore/services/item/application/subscribers"
	itemworkflows "github.com/ghuser/itemstore/services/item/application/workflows"
	"github.com/ghuser/itemstore/services/item/infrastructure/persistence/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Info("starting worker", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log, database.PoolOptions{
		MaxOpenConns: cfg.DatabaseMaxOpenConns,
		MaxIdleConns: cfg.DatabaseMaxIdleConns,
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(pool.DB(), log, events.Options{
		ConsumerGroup: cfg.ServiceName + "-consumer",
	})
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1)
	}
	// Close waits up to 30s for in-flight handlers.
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	a := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if cfg.TemporalEnabled {
		tc, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1)
		}
		defer tc.Close()
		a.TemporalClient = tc
	}

	if err := run(ctx, a); err != nil {
		log.Error("worker failed", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}

// run registers the item subscribers, starts the optional Temporal worker
// and blocks until ctx is cancelled.
func run(ctx context.Context, a *app.Application) error {
	repo := postgres.NewItemRepository(a.Db, nil)
	itemCache := a.ItemCache()

	cacheSync := subscribers.NewCacheSync(repo, itemCache, a.Logger)
	if err := subscribers.Register(ctx, a.EventBus, cacheSync, a.Logger); err != nil {
		return err
	}

	if tc := a.TemporalClient; tc != nil {
		w := tc.NewWorker()
		itemworkflows.Register(w, &itemworkflows.Activities{Items: repo, Cache: itemCache})
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		wr, err := itemworkflows.StartRebuild(ctx, tc.Client, tc.TaskQueue)
		if err != nil {
			a.Logger.Warn("cache rebuild not started", "error", err)
		} else {
			a.Logger.Info("cache rebuild started", "workflow_id", wr.GetID(), "run_id", wr.GetRunID())
		}
	}

	<-ctx.Done()
	a.Logger.Info("shutting down worker...")
	return nil
}
