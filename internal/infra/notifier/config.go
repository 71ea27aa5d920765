package notifier

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"customer-offers/pkg/config"
)

const defaultWebhookTimeout = 30 * time.Second

// LoadDiscordConfig reads DISCORD_ENABLED and DISCORD_WEBHOOK_URL.
// The channel is disabled with a warning unless the URL is an https
// discord.com/api/webhooks/ URL.
func LoadDiscordConfig(logger *slog.Logger) DiscordConfig {
	webhookURL, ok := loadWebhookURL(logger, "Discord", "DISCORD_ENABLED", "DISCORD_WEBHOOK_URL", "discord.com", "/api/webhooks/")
	if !ok {
		return DiscordConfig{Enabled: false}
	}
	return DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    config.GetEnvDuration("DISCORD_TIMEOUT", defaultWebhookTimeout),
	}
}

// LoadSlackConfig reads SLACK_ENABLED and SLACK_WEBHOOK_URL.
// The channel is disabled with a warning unless the URL is an https
// hooks.slack.com/services/ URL.
func LoadSlackConfig(logger *slog.Logger) SlackConfig {
	webhookURL, ok := loadWebhookURL(logger, "Slack", "SLACK_ENABLED", "SLACK_WEBHOOK_URL", "hooks.slack.com", "/services/")
	if !ok {
		return SlackConfig{Enabled: false}
	}
	return SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    config.GetEnvDuration("SLACK_TIMEOUT", defaultWebhookTimeout),
	}
}

func loadWebhookURL(logger *slog.Logger, service, enabledKey, urlKey, host, pathPrefix string) (string, bool) {
	if !config.GetEnvBool(enabledKey, false) {
		return "", false
	}

	webhookURL := config.GetEnvString(urlKey, "")
	if webhookURL == "" {
		logger.Warn(service + " webhook URL is empty, disabling notifications")
		return "", false
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("Invalid "+service+" webhook URL format, disabling notifications", slog.Any("error", err))
		return "", false
	}
	if u.Scheme != "https" {
		logger.Warn(service + " webhook URL must use HTTPS, disabling notifications")
		return "", false
	}
	if u.Host != host {
		logger.Warn("Invalid "+service+" webhook host, disabling notifications", slog.String("host", u.Host))
		return "", false
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		logger.Warn("Invalid "+service+" webhook path, disabling notifications", slog.String("path", u.Path))
		return "", false
	}
	return webhookURL, true
}
