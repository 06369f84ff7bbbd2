package metrics

import (
	"time"

	coremetrics "github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records engine outputs in Prometheus metrics.
type PromSink struct {
	suggestions *prometheus.CounterVec
	eta         *prometheus.HistogramVec
	readiness   *prometheus.GaugeVec
	anomalies   *prometheus.CounterVec
	shortages   *prometheus.GaugeVec
	trust       *prometheus.GaugeVec
	assignments *prometheus.CounterVec
}

var _ coremetrics.MetricsSink = (*PromSink)(nil)

// NewPromSink registers the engine metrics on the default registerer. The
// exposition server is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on reg. A nil registerer
// defaults to the global one. Collectors already present on reg are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cecd_dispatch_suggestions_total",
			Help: "Dispatch suggestions produced by priority",
		}, []string{"priority"}),
		eta: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cecd_dispatch_eta_minutes",
			Help:    "Estimated travel time of suggested responders",
			Buckets: []float64{3, 5, 10, 15, 20, 30, 45, 60, 90, 120},
		}, []string{"priority"}),
		readiness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cecd_region_readiness_score",
			Help: "Readiness score per region",
		}, []string{"region"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cecd_anomalies_flagged_total",
			Help: "Incident reports flagged as suspicious",
		}, []string{"region"}),
		shortages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cecd_region_shortages",
			Help: "Number of forecast shortages per region",
		}, []string{"region"}),
		trust: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cecd_responder_trust_score",
			Help: "Last computed trust score per responder",
		}, []string{"responder_id"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cecd_asset_assignments_total",
			Help: "Asset assignments and releases",
		}, []string{"action"}),
	}
	var err error
	if s.suggestions, err = register(reg, s.suggestions); err != nil {
		return nil, err
	}
	if s.eta, err = register(reg, s.eta); err != nil {
		return nil, err
	}
	if s.readiness, err = register(reg, s.readiness); err != nil {
		return nil, err
	}
	if s.anomalies, err = register(reg, s.anomalies); err != nil {
		return nil, err
	}
	if s.shortages, err = register(reg, s.shortages); err != nil {
		return nil, err
	}
	if s.trust, err = register(reg, s.trust); err != nil {
		return nil, err
	}
	if s.assignments, err = register(reg, s.assignments); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSuggestions counts suggestions and observes their ETA.
func (s *PromSink) RecordSuggestions(_ time.Time, sug []model.DispatchSuggestion) error {
	for _, d := range sug {
		p := string(d.Priority)
		s.suggestions.WithLabelValues(p).Inc()
		s.eta.WithLabelValues(p).Observe(float64(d.ETAMinutes))
	}
	return nil
}

// RecordReadiness sets the readiness gauge of each region.
func (s *PromSink) RecordReadiness(_ time.Time, recs []model.ReadinessRecord) error {
	for _, r := range recs {
		s.readiness.WithLabelValues(r.Region).Set(r.Score)
	}
	return nil
}

// RecordAnomalies counts flagged reports per region.
func (s *PromSink) RecordAnomalies(_ time.Time, recs []model.AnomalyRecord) error {
	for _, r := range recs {
		s.anomalies.WithLabelValues(r.Region).Inc()
	}
	return nil
}

// RecordShortages sets the shortage gauge of each forecast region.
func (s *PromSink) RecordShortages(_ time.Time, recs []model.ShortageForecast) error {
	for _, r := range recs {
		s.shortages.WithLabelValues(r.Region).Set(float64(len(r.Shortages)))
	}
	return nil
}

// RecordTrustProfile sets the trust gauge of the responder.
func (s *PromSink) RecordTrustProfile(p model.TrustProfile) error {
	s.trust.WithLabelValues(p.ResponderID).Set(float64(p.Score))
	return nil
}

// RecordAssignment counts the asset transition by action.
func (s *PromSink) RecordAssignment(_ time.Time, _, _ string, released bool) error {
	action := "assign"
	if released {
		action = "release"
	}
	s.assignments.WithLabelValues(action).Inc()
	return nil
}
