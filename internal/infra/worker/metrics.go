package worker

import (
	"customer-offers/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics holds the worker's configuration metrics and the cron job
// metrics for scheduled campaign runs.
//
// Metrics:
//   - worker_config_*: see config.ConfigMetrics
//   - worker_cron_job_runs_total{status}: started, success, failure, skipped
//   - worker_cron_job_duration_seconds
//   - worker_cron_job_products_processed_total
//   - worker_cron_job_offers_prepared_total
//   - worker_cron_job_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal              *prometheus.CounterVec
	CronJobDurationSeconds        prometheus.Histogram
	CronJobProductsProcessedTotal prometheus.Counter
	CronJobOffersPreparedTotal    prometheus.Counter
	CronJobLastSuccessTimestamp   prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics. It must be
// called once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of campaign cron job runs by status",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of campaign cron job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		CronJobProductsProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_products_processed_total",
			Help: "Total number of products processed across all campaign runs",
		}),

		CronJobOffersPreparedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_offers_prepared_total",
			Help: "Total number of offers prepared across all campaign runs",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful campaign cron job run",
		}),
	}
}

// RecordJobRun counts a job run by status: started, success, failure or skipped.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one job duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordProductsProcessed adds the products handled by one run.
func (m *WorkerMetrics) RecordProductsProcessed(count int) {
	m.CronJobProductsProcessedTotal.Add(float64(count))
}

// RecordOffersPrepared adds the offers persisted by one run.
func (m *WorkerMetrics) RecordOffersPrepared(count int64) {
	m.CronJobOffersPreparedTotal.Add(float64(count))
}

// RecordLastSuccess sets the last success timestamp to now.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
