package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer-offers/internal/app"
	"customer-offers/internal/infra/strategy"
	"customer-offers/internal/observability/logging"
	"customer-offers/internal/observability/tracing"
	"customer-offers/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.InstallProvider(config.GetEnvFloat("TRACE_SAMPLE_RATIO", 0.1))
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	cfg := loadAPIConfig()

	store, err := app.OpenStore(ctx, app.LoadStoreConfig(), logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	go store.WatchPoolStats(ctx, 15*time.Second)

	notifyService := app.NewNotifyService(logger, cfg.NotifyConcurrent)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := notifyService.Shutdown(shutdownCtx); err != nil {
			logger.Error("notification shutdown incomplete", slog.Any("error", err))
		}
	}()

	analysisService, err := app.NewAnalysisService(logger, strategy.LoadConfig(), store, notifyService)
	if err != nil {
		logger.Error("failed to configure analysis", slog.Any("error", err))
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(cfg, logger, store, analysisService),
		ReadHeaderTimeout: 10 * time.Second,
		// Slightly above the request deadline so handlers can still answer 504.
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version),
			slog.Duration("request_timeout", cfg.RequestTimeout),
			slog.Bool("rate_limit", cfg.RateLimitEnabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server failed", slog.Any("error", err))
			return
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
