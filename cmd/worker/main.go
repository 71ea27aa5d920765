package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer-offers/internal/app"
	"customer-offers/internal/infra/strategy"
	workerPkg "customer-offers/internal/infra/worker"
	"customer-offers/internal/observability/logging"
	"customer-offers/internal/observability/tracing"
	"customer-offers/internal/usecase/campaign"
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

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, _ := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("notify_max_concurrent", workerConfig.NotifyMaxConcurrent),
		slog.Duration("campaign_timeout", workerConfig.CampaignTimeout),
		slog.Int("campaign_parallelism", workerConfig.CampaignParallelism),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

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

	notifyService := app.NewNotifyService(logger, workerConfig.NotifyMaxConcurrent)
	defer shutdownNotify(logger, notifyService.Shutdown)

	analysisService, err := app.NewAnalysisService(logger, strategy.LoadConfig(), store, notifyService)
	if err != nil {
		logger.Error("failed to configure analysis", slog.Any("error", err))
		os.Exit(1)
	}
	campaignService := campaign.NewService(store.Products, analysisService, workerConfig.CampaignParallelism)

	metricsServer := workerPkg.NewMetricsServer(fmt.Sprintf(":%d", workerConfig.MetricsPort))
	go func() { _ = workerPkg.Serve(ctx, metricsServer, logger.With(slog.String("server", "metrics"))) }()

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerConfig.HealthPort), logger, notifyService)
	go func() { _ = healthServer.Start(ctx) }()

	job := workerPkg.NewCampaignJob(campaignService, workerConfig.CampaignTimeout, workerMetrics, logger)
	if config.GetEnvBool("RUN_ON_START", false) {
		go job.Run()
	}

	scheduler, err := workerPkg.NewScheduler(workerConfig, job, logger)
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()

	healthServer.SetReady(true)
	logger.Info("worker started")

	<-ctx.Done()
	logger.Info("shutdown signal received")
	healthServer.SetReady(false)

	// Wait for a running campaign, scheduled or started on boot, before
	// closing the store.
	<-scheduler.Stop().Done()
	if err := job.Stop(context.Background()); err != nil {
		logger.Error("campaign did not stop", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

func shutdownNotify(logger *slog.Logger, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("notification shutdown incomplete", slog.Any("error", err))
	}
}
