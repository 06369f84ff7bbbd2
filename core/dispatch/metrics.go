package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	suggestionsTotal *prometheus.CounterVec
	suggestionETA    prometheus.Histogram
	skippedTotal     *prometheus.CounterVec
	publishFailures  prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, *prometheus.CounterVec, prometheus.Counter) {
	sug := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_suggestions_total",
			Help: "Number of dispatch suggestions emitted",
		},
		[]string{"priority"},
	)
	eta := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matcher_eta_minutes",
			Help:    "ETA of emitted dispatch suggestions",
			Buckets: []float64{3, 5, 10, 15, 20, 30, 45, 60, 90, 120},
		},
	)
	skip := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_skipped_total",
			Help: "Incidents or responders left out of a matcher run",
		},
		[]string{"reason"},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_publish_failure_total",
			Help: "Number of failed field notifications",
		},
	)
	return sug, eta, skip, fail
}

func init() {
	suggestionsTotal, suggestionETA, skippedTotal, publishFailures = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers matcher metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(suggestionsTotal, suggestionETA, skippedTotal, publishFailures)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	suggestionsTotal, suggestionETA, skippedTotal, publishFailures = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
