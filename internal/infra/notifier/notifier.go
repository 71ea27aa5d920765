// Package notifier delivers offer announcements to chat webhooks.
// It defines the Notifier interface implemented by the Discord and Slack
// webhook clients and by a no-op notifier used when a channel is disabled.
package notifier

import (
	"context"

	"customer-offers/internal/domain/entity"
)

// Notifier announces a persisted offer.
// Implementations rate limit, retry transient failures and log every attempt
// with the request ID found in ctx.
type Notifier interface {
	// NotifyOffer sends one announcement for offer.
	//
	// Returns:
	//   - error: Non-nil if the announcement failed after all retry attempts
	NotifyOffer(ctx context.Context, offer *entity.Offer) error
}
