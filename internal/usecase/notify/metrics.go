package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Announcement outcomes. Every scheduled delivery ends in exactly one.
const (
	outcomeSent        = "sent"
	outcomeFailed      = "failed"
	outcomePoolFull    = "dropped_pool_full"
	outcomeChannelOpen = "dropped_channel_open"
	outcomeShutdown    = "dropped_shutdown"
)

var (
	announcementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_announcements_total",
			Help: "Offer announcements per channel by final outcome",
		},
		[]string{"channel", "outcome"},
	)

	announcementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "offer_announcement_duration_seconds",
			Help:    "Time a channel took to accept or reject an announcement",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)

	channelTripsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_channel_trips_total",
			Help: "Times a channel was paused after consecutive failures",
		},
		[]string{"channel"},
	)

	announcementsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "offer_announcements_in_flight",
			Help: "Announcement goroutines waiting for or holding a pool slot",
		},
	)

	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "offer_channels_enabled",
			Help: "Enabled announcement channels",
		},
	)
)

func recordOutcome(channel, outcome string) {
	announcementsTotal.WithLabelValues(channel, outcome).Inc()
}

// recordDelivery closes out an attempted send.
func recordDelivery(channel string, err error, took time.Duration) {
	announcementDuration.WithLabelValues(channel).Observe(took.Seconds())
	if err != nil {
		recordOutcome(channel, outcomeFailed)
		return
	}
	recordOutcome(channel, outcomeSent)
}
