package notify

import (
	"context"
	"errors"
	"testing"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/infra/notifier"

	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	offers []*entity.Offer
	err    error
}

func (r *recordingNotifier) NotifyOffer(ctx context.Context, offer *entity.Offer) error {
	r.offers = append(r.offers, offer)
	return r.err
}

func TestWebhookChannel_Send(t *testing.T) {
	n := &recordingNotifier{}
	ch := NewWebhookChannel("discord", n, true)
	offer := testOffer(1)

	assert.NoError(t, ch.Send(context.Background(), offer))
	assert.Equal(t, []*entity.Offer{offer}, n.offers)

	n.err = errors.New("webhook failed")
	assert.EqualError(t, ch.Send(context.Background(), offer), "webhook failed")
}

func TestWebhookChannel_Validation(t *testing.T) {
	n := &recordingNotifier{}

	assert.ErrorIs(t, NewWebhookChannel("slack", n, false).Send(context.Background(), testOffer(1)), ErrChannelDisabled)
	assert.ErrorIs(t, NewWebhookChannel("slack", n, true).Send(context.Background(), nil), ErrInvalidOffer)
	assert.Empty(t, n.offers)
}

func TestNewChannels(t *testing.T) {
	discord := NewDiscordChannel(notifier.DiscordConfig{Enabled: false})
	assert.Equal(t, "discord", discord.Name())
	assert.False(t, discord.IsEnabled())

	slack := NewSlackChannel(notifier.SlackConfig{Enabled: true, WebhookURL: "https://hooks.slack.test/x"})
	assert.Equal(t, "slack", slack.Name())
	assert.True(t, slack.IsEnabled())
}
