package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"customer-offers/internal/domain/entity"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	Enabled bool

	// WebhookURL includes the webhook token and must not be logged.
	WebhookURL string

	Timeout time.Duration
}

// DiscordNotifier posts offer announcements as Discord embeds.
type DiscordNotifier struct {
	hook *webhook
}

// NewDiscordNotifier creates a DiscordNotifier limited to 0.5 requests per
// second with a burst of 3 (Discord allows 30 webhook calls per minute).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	hook := newWebhook("Discord", config.WebhookURL, config.Timeout, 0.5, 3)
	hook.retryAfter = discordRetryAfter
	return &DiscordNotifier{hook: hook}
}

// DiscordWebhookPayload is the JSON body sent to a Discord webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      DiscordEmbedFooter  `json:"footer"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordErrorResponse is the body Discord returns with a 429.
type DiscordErrorResponse struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"` // seconds
}

const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxFieldValueLength  = 1024
	truncationSuffix     = "..."

	// #5865F2
	discordBlueColor = 5793266
)

func buildDiscordPayload(offer *entity.Offer) DiscordWebhookPayload {
	title := truncate(fmt.Sprintf("New offer: %s", offer.Product.Name), maxTitleLength, truncationSuffix)
	description := truncate(
		fmt.Sprintf("%s has been selected for %s.", offer.Customer.Name, offer.Product.Name),
		maxDescriptionLength, truncationSuffix)

	fields := []DiscordEmbedField{
		{Name: "Customer", Value: truncate(customerLabel(offer.Customer), maxFieldValueLength, truncationSuffix), Inline: true},
		{Name: "Price", Value: offer.Product.Price.StringFixed(2), Inline: true},
	}
	if offer.Product.Category != "" {
		fields = append(fields, DiscordEmbedField{Name: "Category", Value: offer.Product.Category, Inline: true})
	}

	embed := DiscordEmbed{
		Title:       title,
		Description: description,
		Color:       discordBlueColor,
		Fields:      fields,
		Footer:      DiscordEmbedFooter{Text: fmt.Sprintf("offer #%d", offer.ID)},
	}
	if !offer.CreatedAt.IsZero() {
		embed.Timestamp = offer.CreatedAt.UTC().Format(time.RFC3339)
	}

	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// customerLabel renders a customer as "Name <email>" or just the name.
func customerLabel(c entity.Customer) string {
	if c.Email == "" {
		return c.Name
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}

// discordRetryAfter prefers the retry_after field of the JSON body and falls
// back to the Retry-After header.
func discordRetryAfter(resp *http.Response, body []byte) time.Duration {
	var discordErr DiscordErrorResponse
	if err := json.Unmarshal(body, &discordErr); err == nil && discordErr.RetryAfter > 0 {
		return time.Duration(discordErr.RetryAfter * float64(time.Second))
	}
	return retryAfterHeader(resp, body)
}

// NotifyOffer implements Notifier.
func (d *DiscordNotifier) NotifyOffer(ctx context.Context, offer *entity.Offer) error {
	return d.hook.deliver(ctx, offer, buildDiscordPayload(offer))
}
