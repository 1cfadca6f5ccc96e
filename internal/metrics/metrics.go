// Package metrics exposes boot measurements as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BootMetrics is the Prometheus implementation of orchestrator.Metrics.
// All methods are safe on a nil receiver.
type BootMetrics struct {
	registry *prometheus.Registry

	groupDuration   *prometheus.HistogramVec
	servicesLoaded  *prometheus.CounterVec
	servicesFailed  *prometheus.CounterVec
	bootDuration    *prometheus.HistogramVec
	bootsTotal      *prometheus.CounterVec
	lastBootSeconds prometheus.Gauge
}

// NewBootMetrics registers the boot metrics on a fresh registry.
func NewBootMetrics() *BootMetrics {
	reg := prometheus.NewRegistry()

	return &BootMetrics{
		registry: reg,
		groupDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stagehand_group_duration_seconds",
				Help:    "Wall-clock time to settle every member of a load group",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"group"},
		),
		servicesLoaded: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagehand_services_loaded_total",
				Help: "Total number of services loaded, by load group",
			},
			[]string{"group"},
		),
		servicesFailed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagehand_services_failed_total",
				Help: "Total number of services that failed to load, by load group",
			},
			[]string{"group"},
		),
		bootDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stagehand_boot_duration_seconds",
				Help:    "Duration of boot attempts by outcome",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"outcome"}, // "Ready", "Failed"
		),
		bootsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagehand_boots_total",
				Help: "Total number of boot attempts by outcome",
			},
			[]string{"outcome"},
		),
		lastBootSeconds: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "stagehand_last_boot_duration_seconds",
				Help: "Duration of the most recent boot attempt",
			},
		),
	}
}

// ObserveGroup records the outcome of one load group.
func (m *BootMetrics) ObserveGroup(index int, duration time.Duration, succeeded, failed int) {
	if m == nil {
		return
	}
	group := strconv.Itoa(index)
	m.groupDuration.WithLabelValues(group).Observe(duration.Seconds())
	m.servicesLoaded.WithLabelValues(group).Add(float64(succeeded))
	m.servicesFailed.WithLabelValues(group).Add(float64(failed))
}

// ObserveBoot records the outcome of a boot attempt.
func (m *BootMetrics) ObserveBoot(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.bootDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.bootsTotal.WithLabelValues(outcome).Inc()
	m.lastBootSeconds.Set(duration.Seconds())
}

// Registry returns the underlying registry, or nil.
func (m *BootMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *BootMetrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
