package worker

import (
	"fmt"
	"log/slog"
	"time"

	"customer-offers/internal/pkg/config"
)

// WorkerConfig holds the campaign worker settings.
//
// Environment variables:
//   - CRON_SCHEDULE: five-field cron expression (default "0 6 * * *")
//   - WORKER_TIMEZONE: IANA timezone for the schedule (default "UTC")
//   - NOTIFY_MAX_CONCURRENT: in-flight offer announcements, 1-100 (default 10)
//   - CAMPAIGN_TIMEOUT: deadline for one campaign run, 1m-4h (default 30m)
//   - CAMPAIGN_PARALLELISM: products prepared at once, 1-32 (default 4)
//   - WORKER_HEALTH_PORT: health server port, 1024-65535 (default 9091)
//   - METRICS_PORT: Prometheus listener port, 1024-65535 (default 9090)
type WorkerConfig struct {
	CronSchedule        string
	Timezone            string
	NotifyMaxConcurrent int
	CampaignTimeout     time.Duration
	CampaignParallelism int
	HealthPort          int
	MetricsPort         int
}

// DefaultConfig returns the production defaults: one campaign every morning
// at 06:00 UTC.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:        "0 6 * * *",
		Timezone:            "UTC",
		NotifyMaxConcurrent: 10,
		CampaignTimeout:     30 * time.Minute,
		CampaignParallelism: 4,
		HealthPort:          9091,
		MetricsPort:         9090,
	}
}

func validateNotifyMaxConcurrent(v int) error { return config.ValidateIntRange(v, 1, 100) }
func validateCampaignParallelism(v int) error { return config.ValidateIntRange(v, 1, 32) }
func validatePort(v int) error                { return config.ValidateIntRange(v, 1024, 65535) }
func validateCampaignTimeout(d time.Duration) error {
	return config.ValidateDuration(d, time.Minute, 4*time.Hour)
}

// Validate checks every field and reports all problems at once.
//
// Example:
//
//	cfg := DefaultConfig()
//	cfg.CronSchedule = "invalid"
//	cfg.CampaignParallelism = 0
//	err := cfg.Validate()
//	// validation failed: [cron schedule: ... campaign parallelism: ...]
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validateNotifyMaxConcurrent(c.NotifyMaxConcurrent); err != nil {
		errs = append(errs, fmt.Errorf("notify max concurrent: %w", err))
	}
	if err := validateCampaignTimeout(c.CampaignTimeout); err != nil {
		errs = append(errs, fmt.Errorf("campaign timeout: %w", err))
	}
	if err := validateCampaignParallelism(c.CampaignParallelism); err != nil {
		errs = append(errs, fmt.Errorf("campaign parallelism: %w", err))
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := validatePort(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// Location returns the schedule timezone, or UTC when it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads the worker configuration with a fail-open
// strategy: an invalid value is replaced by its default, logged as a
// warning and counted in metrics. The error is always nil and the
// returned config always passes Validate.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallback := false

	cron := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = cron.Value
	fallback = metrics.Track(logger, "cron_schedule", cron.Warnings, cron.FallbackApplied) || fallback

	tz := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	fallback = metrics.Track(logger, "timezone", tz.Warnings, tz.FallbackApplied) || fallback

	notify := config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, validateNotifyMaxConcurrent)
	cfg.NotifyMaxConcurrent = notify.Value
	fallback = metrics.Track(logger, "notify_max_concurrent", notify.Warnings, notify.FallbackApplied) || fallback

	timeout := config.LoadEnvDuration("CAMPAIGN_TIMEOUT", cfg.CampaignTimeout, validateCampaignTimeout)
	cfg.CampaignTimeout = timeout.Value
	fallback = metrics.Track(logger, "campaign_timeout", timeout.Warnings, timeout.FallbackApplied) || fallback

	parallelism := config.LoadEnvInt("CAMPAIGN_PARALLELISM", cfg.CampaignParallelism, validateCampaignParallelism)
	cfg.CampaignParallelism = parallelism.Value
	fallback = metrics.Track(logger, "campaign_parallelism", parallelism.Warnings, parallelism.FallbackApplied) || fallback

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, validatePort)
	cfg.HealthPort = port.Value
	fallback = metrics.Track(logger, "health_port", port.Warnings, port.FallbackApplied) || fallback

	metricsPort := config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, validatePort)
	cfg.MetricsPort = metricsPort.Value
	fallback = metrics.Track(logger, "metrics_port", metricsPort.Warnings, metricsPort.FallbackApplied) || fallback

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
