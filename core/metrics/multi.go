package metrics

import (
	"errors"
	"time"

	"github.com/cryptonique0/cecd/core/model"
)

// MultiSink fans records out to several sinks. Every sink is attempted; the
// errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordSuggestions(at time.Time, s []model.DispatchSuggestion) error {
	var errs []error
	for _, sink := range m.Sinks {
		errs = append(errs, sink.RecordSuggestions(at, s))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordReadiness(at time.Time, recs []model.ReadinessRecord) error {
	var errs []error
	for _, sink := range m.Sinks {
		if r, ok := sink.(ReadinessRecorder); ok {
			errs = append(errs, r.RecordReadiness(at, recs))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordAnomalies(at time.Time, recs []model.AnomalyRecord) error {
	var errs []error
	for _, sink := range m.Sinks {
		if r, ok := sink.(AnomalyRecorder); ok {
			errs = append(errs, r.RecordAnomalies(at, recs))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordShortages(at time.Time, recs []model.ShortageForecast) error {
	var errs []error
	for _, sink := range m.Sinks {
		if r, ok := sink.(ShortageRecorder); ok {
			errs = append(errs, r.RecordShortages(at, recs))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordTrustProfile(p model.TrustProfile) error {
	var errs []error
	for _, sink := range m.Sinks {
		if r, ok := sink.(TrustRecorder); ok {
			errs = append(errs, r.RecordTrustProfile(p))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordAssignment(at time.Time, assetID, incidentID string, released bool) error {
	var errs []error
	for _, sink := range m.Sinks {
		if r, ok := sink.(AssignmentRecorder); ok {
			errs = append(errs, r.RecordAssignment(at, assetID, incidentID, released))
		}
	}
	return errors.Join(errs...)
}
