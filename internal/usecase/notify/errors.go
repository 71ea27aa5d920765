package notify

import "errors"

var (
	ErrChannelDisabled = errors.New("channel is disabled")
	ErrInvalidOffer    = errors.New("nil offer")
)
