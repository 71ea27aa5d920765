package notify

import (
	"context"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/infra/notifier"
)

// WebhookChannel adapts a notifier.Notifier to Channel.
type WebhookChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel creates the "discord" channel. A disabled configuration
// is backed by notifier.Discard.
func NewDiscordChannel(config notifier.DiscordConfig) *WebhookChannel {
	n := notifier.Discard
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	}
	return NewWebhookChannel("discord", n, config.Enabled)
}

// NewSlackChannel creates the "slack" channel, likewise.
func NewSlackChannel(config notifier.SlackConfig) *WebhookChannel {
	n := notifier.Discard
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	}
	return NewWebhookChannel("slack", n, config.Enabled)
}

// NewWebhookChannel wraps an arbitrary notifier under name.
func NewWebhookChannel(name string, n notifier.Notifier, enabled bool) *WebhookChannel {
	return &WebhookChannel{name: name, notifier: n, enabled: enabled}
}

func (c *WebhookChannel) Name() string { return c.name }

func (c *WebhookChannel) IsEnabled() bool { return c.enabled }

// Send implements Channel.
func (c *WebhookChannel) Send(ctx context.Context, offer *entity.Offer) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if offer == nil {
		return ErrInvalidOffer
	}
	return c.notifier.NotifyOffer(ctx, offer)
}
