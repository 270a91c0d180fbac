package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the introspection API.
type Metrics struct {
	scansTotal      *prometheus.CounterVec
	recordsReturned prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		scansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigil_scans_total",
				Help: "Total number of record scans served",
			},
			[]string{"endpoint"},
		),
		recordsReturned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sigil_records_returned_total",
				Help: "Total number of records returned by the API",
			},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sigil_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}
