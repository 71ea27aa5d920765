package notifier

import (
	"context"
	"fmt"
	"time"

	"customer-offers/internal/domain/entity"
)

// SlackConfig contains configuration for Slack Incoming Webhook notifications.
type SlackConfig struct {
	Enabled bool

	// WebhookURL includes the webhook token and must not be logged.
	WebhookURL string

	Timeout time.Duration
}

// SlackNotifier posts offer announcements using Block Kit.
type SlackNotifier struct {
	hook *webhook
}

// NewSlackNotifier creates a SlackNotifier limited to one message per second.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{hook: newWebhook("Slack", config.WebhookURL, config.Timeout, 1.0, 1)}
}

// SlackWebhookPayload is the JSON body sent to a Slack webhook.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxContextTextLength = 2000
	maxFallbackLength    = 150
)

func buildSlackPayload(offer *entity.Offer) SlackWebhookPayload {
	fallback := truncate(
		fmt.Sprintf("New offer: %s for %s", offer.Product.Name, offer.Customer.Name),
		maxFallbackLength, truncationSuffix)

	section := truncate(
		fmt.Sprintf("*New offer: %s*\n%s has been selected. Price: %s",
			offer.Product.Name, customerLabel(offer.Customer), offer.Product.Price.StringFixed(2)),
		maxSectionTextLength, truncationSuffix)

	footer := fmt.Sprintf("offer #%d", offer.ID)
	if offer.Product.Category != "" {
		footer += " • " + offer.Product.Category
	}
	if !offer.CreatedAt.IsZero() {
		footer += " • " + offer.CreatedAt.UTC().Format(time.RFC3339)
	}
	footer = truncate(footer, maxContextTextLength, truncationSuffix)

	return SlackWebhookPayload{
		Text: fallback,
		Blocks: []SlackBlock{
			{Type: "section", Text: &SlackTextObject{Type: "mrkdwn", Text: section}},
			{Type: "context", Elements: []SlackTextObject{{Type: "mrkdwn", Text: footer}}},
		},
	}
}

// NotifyOffer implements Notifier.
func (s *SlackNotifier) NotifyOffer(ctx context.Context, offer *entity.Offer) error {
	return s.hook.deliver(ctx, offer, buildSlackPayload(offer))
}
