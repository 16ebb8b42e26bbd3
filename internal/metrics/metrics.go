// Package metrics holds the Prometheus instruments of the dispatcher.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for NotificationsProcessed.
const (
	OutcomeSent      = "sent"
	OutcomeFailed    = "failed"
	OutcomeInvalid   = "invalid"
	OutcomeSkipped   = "skipped"
	OutcomeDuplicate = "duplicate"
)

// Lookup labels for ProfileLookups.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	NotificationsProcessed *prometheus.CounterVec
	ProfileLookups         *prometheus.CounterVec
	SendDuration           prometheus.Histogram
}

// New registers the instruments on a private registry, not on
// prometheus.DefaultRegisterer.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		NotificationsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_notifications_processed_total",
				Help: "Notification documents handled, partitioned by terminal outcome.",
			},
			[]string{"outcome"},
		),
		ProfileLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_profile_lookups_total",
				Help: "User profile lookups made to resolve display names.",
			},
			[]string{"result"},
		),
		SendDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clinic_push_send_duration_seconds",
				Help:    "Latency of push gateway send calls.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) Processed(outcome string) {
	m.NotificationsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Lookup(result string) {
	m.ProfileLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSend(start time.Time) {
	m.SendDuration.Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
