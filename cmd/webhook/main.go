package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/rotacarga/rotacarga/internal/app"
	"github.com/rotacarga/rotacarga/internal/platform/db"
	"github.com/rotacarga/rotacarga/internal/shipments"
	"github.com/rotacarga/rotacarga/internal/webhook"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping webhook startup")
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

	shipmentRepo := shipments.NewRepository(dbpool)
	shipmentService := shipments.NewService(shipmentRepo, nil, logger)

	sender := webhook.NewWhatsAppSender(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneID, cfg.WhatsAppToken)
	handler := webhook.NewHandler(logger, shipmentService, sender, cfg.WebhookVerifyToken)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(httprate.LimitByIP(60, time.Minute))
	handler.MountRoutes(router)

	server := &http.Server{
		Addr:         cfg.WebhookAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting webhook server", slog.String("addr", cfg.WebhookAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("webhook server", slog.Any("error", err))
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
