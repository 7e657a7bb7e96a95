// Package metrics holds the Prometheus collectors for check-in processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "liubai"

// Outcome labels for CheckIns.
const (
	OutcomePersisted = "persisted"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	CheckIns            *prometheus.CounterVec
	ReplyFallbacks      *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	GenerationDuration  prometheus.Histogram
}

// New registers the collectors on reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CheckIns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_total",
			Help:      "Submitted check-ins by energy level and persistence outcome.",
		}, []string{"level", "outcome"}),
		ReplyFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reply_fallbacks_total",
			Help:      "Coach replies replaced or completed by a canned fallback.",
		}, []string{"reason"}),
		PersistenceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Swallowed storage failures after a reply was streamed.",
		}, []string{"stage"}),
		GenerationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time from the first generator call until the reply stream ends.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
}
