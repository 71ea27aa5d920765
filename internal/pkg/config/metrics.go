package config

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics reports how a component's configuration was loaded. Every
// series is prefixed with the component name, so a name may be registered
// only once per process.
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge

	component string
}

// NewConfigMetrics registers <component>_config_* with the default registry.
func NewConfigMetrics(component string) *ConfigMetrics {
	prefix := component + "_config_"
	return &ConfigMetrics{
		component: component,
		LoadTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "load_timestamp",
			Help: "Unix time the " + component + " configuration was last loaded",
		}),
		ValidationErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "validation_errors_total",
			Help: "Environment values the " + component + " rejected, by field",
		}, []string{"field"}),
		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "fallbacks_total",
			Help: "Defaults the " + component + " substituted, by field",
		}, []string{"field"}),
		FallbackActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "fallback_active",
			Help: "1 while any " + component + " field runs on a substituted default",
		}),
	}
}

func (m *ConfigMetrics) RecordLoadTimestamp() { m.LoadTimestamp.SetToCurrentTime() }

func (m *ConfigMetrics) SetFallbackActive(active bool) {
	v := 0.0
	if active {
		v = 1
	}
	m.FallbackActive.Set(v)
}

// Track accounts for one loaded field and reports whether its default was
// substituted:
//
//	r := LoadEnvInt("NOTIFY_MAX_CONCURRENT", 10, nil)
//	fallback = m.Track(logger, "notify_max_concurrent", r.Warnings, r.FallbackApplied) || fallback
func (m *ConfigMetrics) Track(logger *slog.Logger, field string, warnings []string, applied bool) bool {
	if !applied {
		return false
	}
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
	m.FallbacksTotal.WithLabelValues(field).Inc()
	for _, w := range warnings {
		logger.Warn("configuration fallback applied",
			slog.String("component", m.component),
			slog.String("field", field),
			slog.String("warning", w))
	}
	return true
}
