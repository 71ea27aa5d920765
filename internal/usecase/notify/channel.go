// Package notify dispatches offer announcements to the configured delivery
// channels (Discord, Slack). Delivery runs in the background behind a worker
// pool and a per-channel circuit breaker, so announcing never blocks or fails
// the caller.
package notify

import (
	"context"

	"customer-offers/internal/domain/entity"
)

// Channel is one delivery destination for offer announcements.
//
// Retry Policy Contract:
//   - Transient failures (5xx, network errors): retried with backoff
//   - Rate limits (429): wait for the advertised back-off, then retry
//   - Client errors (4xx except 429): no retry
//
// Implementations must be safe for concurrent use and respect ctx.
type Channel interface {
	// Name returns the lowercase channel identifier used in logs and metrics.
	Name() string

	// IsEnabled reports whether the channel should receive announcements.
	IsEnabled() bool

	// Send delivers one announcement.
	//
	// Returns:
	//   - ErrChannelDisabled: If called on a disabled channel
	//   - ErrInvalidOffer: If offer is nil
	//   - Network/API errors from the underlying notifier
	Send(ctx context.Context, offer *entity.Offer) error
}
