package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rotacarga/rotacarga/internal/analytics"
	"github.com/rotacarga/rotacarga/internal/app"
	"github.com/rotacarga/rotacarga/internal/geo"
	"github.com/rotacarga/rotacarga/internal/masterdata/clientes"
	"github.com/rotacarga/rotacarga/internal/masterdata/motoristas"
	"github.com/rotacarga/rotacarga/internal/masterdata/veiculos"
	"github.com/rotacarga/rotacarga/internal/observability"
	"github.com/rotacarga/rotacarga/internal/platform/cache"
	"github.com/rotacarga/rotacarga/internal/platform/db"
	"github.com/rotacarga/rotacarga/internal/quotes"
	"github.com/rotacarga/rotacarga/internal/receivables"
	"github.com/rotacarga/rotacarga/internal/shared"
	"github.com/rotacarga/rotacarga/internal/shipments"
	"github.com/rotacarga/rotacarga/jobs"
	"github.com/rotacarga/rotacarga/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewChangeNotifier(jobsClient, logger)

	shipmentRepo := shipments.NewRepository(dbpool)
	shipmentService := shipments.NewService(shipmentRepo, notifier, logger)
	shipmentHandler := shipments.NewHandler(logger, shipmentService)

	seq := shared.NewSequenceStore(dbpool)
	seedCargoSequence(ctx, logger, shipmentRepo, seq)

	geocoder := geo.NewGeocoder(cfg.NominatimURL, cfg.GeoCountryHint, cfg.GeoTimeout, logger)
	osrm := geo.NewRouter(cfg.OSRMURL, cfg.GeoTimeout, logger)
	sequencer := geo.NewSequencer(geocoder, osrm, logger)

	reportClient := report.NewClient(cfg.GotenbergURL)

	quoteRepo := quotes.NewRepository(dbpool, shipmentRepo)
	quoteService := quotes.NewService(quoteRepo, seq, sequencer, notifier, logger)
	quoteHandler := quotes.NewHandler(logger, quoteService, reportClient)

	receivableRepo := receivables.NewRepository(dbpool)
	receivableService := receivables.NewService(receivableRepo, logger)
	reconciler := receivables.NewReconciler(shipmentService, receivableRepo, logger)
	receivableHandler := receivables.NewHandler(logger, receivableService, reconciler)

	clienteHandler := clientes.NewHandler(logger, clientes.NewService(clientes.NewRepository(dbpool)))
	motoristaHandler := motoristas.NewHandler(logger, motoristas.NewService(motoristas.NewRepository(dbpool)))
	veiculoHandler := veiculos.NewHandler(logger, veiculos.NewService(veiculos.NewRepository(dbpool)))

	dashCache := analytics.NewCache(redisClient, cfg.AnalyticsTTL)
	if err := dashCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("dashboard cache subscribe", slog.Any("error", err))
	}
	analyticsService := analytics.NewService(shipmentService, receivableService, quoteRepo, dashCache, logger)
	analyticsHandler := analytics.NewHandler(logger, analyticsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ShipmentHandler:   shipmentHandler,
		QuoteHandler:      quoteHandler,
		ReceivableHandler: receivableHandler,
		ClienteHandler:    clienteHandler,
		MotoristaHandler:  motoristaHandler,
		VeiculoHandler:    veiculoHandler,
		AnalyticsHandler:  analyticsHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// seedCargoSequence lifts the sequence floor to the highest digit run seen in
// existing cargo numbers, so records imported before the sequence table
// existed never collide with newly reserved numbers.
func seedCargoSequence(ctx context.Context, logger *slog.Logger, repo *shipments.Repository, seq *shared.SequenceStore) {
	numbers, err := repo.ListCargoNumbers(ctx)
	if err != nil {
		logger.Warn("seed carga sequence", slog.Any("error", err))
		return
	}
	next := shipments.NextCargoNumber(numbers)
	if err := seq.Seed(ctx, quotes.SequenceKindCarga, next-1); err != nil {
		logger.Warn("seed carga sequence", slog.Any("error", err))
	}
}
