package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/rotacarga/rotacarga/internal/analytics"
	"github.com/rotacarga/rotacarga/internal/app"
	"github.com/rotacarga/rotacarga/internal/platform/cache"
	"github.com/rotacarga/rotacarga/internal/platform/db"
	"github.com/rotacarga/rotacarga/internal/quotes"
	"github.com/rotacarga/rotacarga/internal/receivables"
	"github.com/rotacarga/rotacarga/internal/shipments"
	"github.com/rotacarga/rotacarga/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard invalidation disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	shipmentRepo := shipments.NewRepository(dbpool)
	shipmentService := shipments.NewService(shipmentRepo, nil, logger)

	receivableRepo := receivables.NewRepository(dbpool)
	receivableService := receivables.NewService(receivableRepo, logger)
	reconciler := receivables.NewReconciler(shipmentService, receivableRepo, logger)

	quoteRepo := quotes.NewRepository(dbpool, shipmentRepo)
	dashCache := analytics.NewCache(redisClient, cfg.AnalyticsTTL)
	dash := analytics.NewService(shipmentService, receivableService, quoteRepo, dashCache, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskFinanceiroReconcile, Handler: jobs.NewReconcileHandler(reconciler, dash, logger)},
			{Type: jobs.TaskFinanceiroSyncViagem, Handler: jobs.NewSyncViagemHandler(reconciler, dash, logger)},
			{Type: jobs.TaskFinanceiroOverdueScan, Handler: jobs.NewOverdueScanHandler(receivableService, dash, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/5 * * * *", Task: jobs.NewReconcileTask()},
			{Spec: "0 6 * * *", Task: jobs.NewOverdueScanTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shut down")
}
