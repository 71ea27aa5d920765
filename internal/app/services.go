package app

import (
	"fmt"
	"log/slog"

	"customer-offers/internal/infra/failure"
	"customer-offers/internal/infra/notifier"
	"customer-offers/internal/infra/strategy"
	"customer-offers/internal/usecase/analysis"
	"customer-offers/internal/usecase/notify"
)

// NewNotifyService builds the offer announcement fan-out from the Discord
// and Slack settings. With no channel enabled it still works and delivers
// nothing.
func NewNotifyService(logger *slog.Logger, maxConcurrent int) *notify.Service {
	var channels []notify.Channel

	if cfg := notifier.LoadDiscordConfig(logger); cfg.Enabled {
		channels = append(channels, notify.NewDiscordChannel(cfg))
		logger.Info("Discord channel initialized", slog.String("status", "enabled"))
	} else {
		logger.Info("Discord channel disabled")
	}

	if cfg := notifier.LoadSlackConfig(logger); cfg.Enabled {
		channels = append(channels, notify.NewSlackChannel(cfg))
		logger.Info("Slack channel initialized", slog.String("status", "enabled"))
	} else {
		logger.Info("Slack channel disabled")
	}

	logger.Info("Notification service initialized",
		slog.Int("channels", len(channels)),
		slog.Int("max_concurrent", maxConcurrent))
	return notify.NewService(channels, maxConcurrent)
}

// NewAnalysisService builds the strategy chain from cfg and wires it to
// store, announcer and a logging failure handler.
func NewAnalysisService(logger *slog.Logger, cfg strategy.Config, store *Store, announcer analysis.Announcer) (*analysis.Service, error) {
	strategies, err := strategy.Build(cfg, store.Customers)
	if err != nil {
		return nil, fmt.Errorf("build strategies: %w", err)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("build strategies: no strategy configured")
	}

	svc := analysis.NewService(strategies, store.Records, announcer, failure.NewLoggingHandler(logger))
	logger.Info("analysis strategies configured", slog.Any("strategies", svc.Strategies()))
	return svc, nil
}
