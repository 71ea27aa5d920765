package notifier

import (
	"context"

	"customer-offers/internal/domain/entity"
)

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, offer *entity.Offer) error

func (f Func) NotifyOffer(ctx context.Context, offer *entity.Offer) error { return f(ctx, offer) }

// Discard accepts every offer and sends nothing. Disabled channels use it.
var Discard Notifier = Func(func(context.Context, *entity.Offer) error { return nil })
