// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeStored  = "stored"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var (
	SightingsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sightings_submitted_total",
			Help: "Sighting submissions by outcome.",
		},
		[]string{"outcome"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sighting_store_operation_duration_seconds",
			Help:    "Duration of backing store operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
)

func RecordSubmission(outcome string) {
	SightingsSubmitted.WithLabelValues(outcome).Inc()
}

func ObserveStoreOp(backend, op string, d time.Duration) {
	StoreOperationDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}
