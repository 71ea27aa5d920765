package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StrategyAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_strategy_attempts_total",
			Help: "Analysis strategy invocations by outcome",
		},
		[]string{"strategy", "result"},
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_strategy_duration_seconds",
			Help:    "Time one strategy spent analysing a product",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"strategy"},
	)

	FallbackExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_fallback_exhausted_total",
			Help: "Analyses in which every strategy failed",
		},
	)

	FailuresHandledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_failures_handled_total",
			Help: "Strategy failures passed to the failure handler",
		},
		[]string{"strategy", "kind"},
	)

	OffersPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offers_persisted_total",
			Help: "Offer persist attempts by outcome",
		},
		[]string{"status"},
	)

	OffersAnnouncedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offers_announced_total",
			Help: "Offer announcements by outcome",
		},
		[]string{"status"},
	)

	CampaignRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campaign_run_duration_seconds",
			Help:    "Wall time of a campaign over all active products",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// error_type is not_found, persist or other.
	CampaignProductErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_product_errors_total",
			Help: "Products whose offer preparation failed during a campaign",
		},
		[]string{"error_type"},
	)
)

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordStrategyAttempt is labelled by Strategy.Name(), which the
// configured strategy list bounds.
func RecordStrategyAttempt(strategy string, success bool, duration time.Duration) {
	StrategyAttemptsTotal.WithLabelValues(strategy, resultLabel(success)).Inc()
	StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

func RecordFallbackExhausted() { FallbackExhaustedTotal.Inc() }

// RecordFailureHandled counts a failure of kind analysis_failed or
// cannot_interpret_input. strategy is "unknown" when none was reported.
func RecordFailureHandled(strategy, kind string) {
	FailuresHandledTotal.WithLabelValues(strategy, kind).Inc()
}

func RecordOfferPersisted(success bool) {
	OffersPersistedTotal.WithLabelValues(resultLabel(success)).Inc()
}

func RecordOfferAnnounced(success bool) {
	OffersAnnouncedTotal.WithLabelValues(resultLabel(success)).Inc()
}

func RecordCampaignRun(duration time.Duration) {
	CampaignRunDuration.Observe(duration.Seconds())
}

func RecordCampaignProductError(errorType string) {
	CampaignProductErrors.WithLabelValues(errorType).Inc()
}
