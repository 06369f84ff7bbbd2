package metrics

import (
	"time"

	"github.com/cryptonique0/cecd/core/model"
)

// MetricsSink records dispatch suggestions.
type MetricsSink interface {
	RecordSuggestions(at time.Time, s []model.DispatchSuggestion) error
}

// ReadinessRecorder records regional readiness scores.
type ReadinessRecorder interface {
	RecordReadiness(at time.Time, recs []model.ReadinessRecord) error
}

// AnomalyRecorder records flagged incident reports.
type AnomalyRecorder interface {
	RecordAnomalies(at time.Time, recs []model.AnomalyRecord) error
}

// ShortageRecorder records regional shortage forecasts.
type ShortageRecorder interface {
	RecordShortages(at time.Time, recs []model.ShortageForecast) error
}

// TrustRecorder records computed trust profiles.
type TrustRecorder interface {
	RecordTrustProfile(p model.TrustProfile) error
}

// AssignmentRecorder records asset assignments and releases.
type AssignmentRecorder interface {
	RecordAssignment(at time.Time, assetID, incidentID string, released bool) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSuggestions(time.Time, []model.DispatchSuggestion) error { return nil }
func (NopSink) RecordReadiness(time.Time, []model.ReadinessRecord) error      { return nil }
func (NopSink) RecordAnomalies(time.Time, []model.AnomalyRecord) error        { return nil }
func (NopSink) RecordShortages(time.Time, []model.ShortageForecast) error     { return nil }
func (NopSink) RecordTrustProfile(model.TrustProfile) error                   { return nil }
func (NopSink) RecordAssignment(time.Time, string, string, bool) error        { return nil }
