// Package slo tracks service level objectives for offer campaigns.
package slo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// CampaignSuccessSLO is the minimum ratio of products per campaign run
	// whose offers were prepared without error.
	CampaignSuccessSLO = 0.99

	// CampaignDurationSLO is the longest a campaign run should take.
	CampaignDurationSLO = 10 * time.Minute
)

// Gauges are updated at the end of every campaign run.
var (
	SLOCampaignSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_campaign_success_ratio",
			Help: "Ratio of products prepared without error in the last campaign run, target: 0.99",
		},
	)

	SLOCampaignDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_campaign_duration_seconds",
			Help: "Duration of the last campaign run in seconds, target: 600",
		},
	)

	// SLOCampaignLastMet is the unix time of the last run that met both objectives.
	SLOCampaignLastMet = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_campaign_last_met_timestamp_seconds",
			Help: "Unix timestamp of the last campaign run that met its objectives",
		},
	)
)

// SuccessRatio returns the share of products that did not fail.
// A run over zero products counts as fully successful.
func SuccessRatio(products, failed int) float64 {
	if products <= 0 {
		return 1
	}
	if failed < 0 {
		failed = 0
	}
	if failed > products {
		failed = products
	}
	return float64(products-failed) / float64(products)
}

// ObserveCampaign updates the SLO gauges for a finished run and reports
// whether the run met both objectives.
//
// Example:
//
//	met := slo.ObserveCampaign(stats.Products, stats.Failed, stats.Duration, time.Now())
func ObserveCampaign(products, failed int, duration time.Duration, finishedAt time.Time) bool {
	ratio := SuccessRatio(products, failed)
	SLOCampaignSuccess.Set(ratio)
	SLOCampaignDuration.Set(duration.Seconds())

	met := ratio >= CampaignSuccessSLO && duration <= CampaignDurationSLO
	if met {
		SLOCampaignLastMet.Set(float64(finishedAt.Unix()))
	}
	return met
}
