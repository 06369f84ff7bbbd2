// Package readiness scores regional operational readiness and flags
// suspicious incident reports.
package readiness

import (
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cryptonique0/cecd/core/events"
	"github.com/cryptonique0/cecd/core/geo"
	"github.com/cryptonique0/cecd/core/logger"
	"github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/cryptonique0/cecd/core/monitoring"
	"github.com/cryptonique0/cecd/core/playbook"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

const (
	// DefaultSampleSize bounds the playbooks generated per region.
	DefaultSampleSize = 5
	// DefaultResponseMinutes applies to unmapped severities.
	DefaultResponseMinutes = 15.0
	// AnomalyThreshold is the minimum suspicion score reported.
	AnomalyThreshold = 0.6
	// DefaultConfidence is assumed when the classifier gave none.
	DefaultConfidence = 0.5
)

// responseMinutes is the expected response time per severity.
var responseMinutes = map[model.Severity]float64{
	model.SeverityCritical: 8,
	model.SeverityHigh:     12,
	model.SeverityMedium:   15,
	model.SeverityLow:      20,
}

// Denylist holds terms marking a report as likely noise. Matching is a
// case-insensitive substring test.
var Denylist = []string{"spam", "test", "fake", "hoax"}

// Config tunes the scorer.
type Config struct {
	SampleSize int `json:"sample_size"`
}

// Scorer computes readiness records and anomaly flags.
type Scorer struct {
	generator  *playbook.Generator
	sampleSize int
	logger     logger.Logger
	metrics    metrics.MetricsSink
	bus        eventbus.EventBus
}

// Option customises a Scorer.
type Option func(*Scorer)

// WithConfig applies c.
func WithConfig(c Config) Option {
	return func(s *Scorer) {
		if c.SampleSize > 0 {
			s.sampleSize = c.SampleSize
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(s *Scorer) { s.logger = logger.OrNop(l) } }

// WithMetrics records results on sinks implementing ReadinessRecorder or
// AnomalyRecorder.
func WithMetrics(m metrics.MetricsSink) Option { return func(s *Scorer) { s.metrics = m } }

// WithEventBus publishes an AnomalyEvent per flagged report.
func WithEventBus(bus eventbus.EventBus) Option { return func(s *Scorer) { s.bus = bus } }

// NewScorer returns a Scorer sampling playbooks from gen. A nil generator
// uses the default profiles.
func NewScorer(gen *playbook.Generator, opts ...Option) *Scorer {
	if gen == nil {
		gen = playbook.NewGenerator()
	}
	s := &Scorer{generator: gen, sampleSize: DefaultSampleSize, logger: logger.NopLogger{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

type bucket struct {
	name       string
	incidents  []model.Incident
	responders []model.Responder
}

// ReadinessByRegion returns one record per region holding at least one
// incident, in first-seen order. Responders join the region named by their
// Location field.
func (s *Scorer) ReadinessByRegion(incidents []model.Incident, responders []model.Responder) []model.ReadinessRecord {
	incidents = s.validIncidents(incidents)
	var order []*bucket
	byName := make(map[string]*bucket)
	for _, inc := range incidents {
		b, ok := byName[inc.LocationName]
		if !ok {
			b = &bucket{name: inc.LocationName}
			byName[inc.LocationName] = b
			order = append(order, b)
		}
		b.incidents = append(b.incidents, inc)
	}
	for _, r := range responders {
		if b, ok := byName[r.Location]; ok {
			b.responders = append(b.responders, r)
		}
	}

	out := make([]model.ReadinessRecord, 0, len(order))
	for _, b := range order {
		out = append(out, s.score(b))
	}
	if r, ok := s.metrics.(metrics.ReadinessRecorder); ok {
		if err := r.RecordReadiness(time.Now(), out); err != nil {
			s.logger.Errorf("record readiness: %v", err)
		}
	}
	return out
}

func (s *Scorer) score(b *bucket) model.ReadinessRecord {
	mins := make([]float64, len(b.incidents))
	closed := 0
	for i, inc := range b.incidents {
		m, ok := responseMinutes[inc.Severity]
		if !ok {
			m = DefaultResponseMinutes
		}
		mins[i] = m
		if inc.Status == model.StatusResolved || inc.Status == model.StatusClosed {
			closed++
		}
	}
	avg := stat.Mean(mins, nil)
	closure := ratio(closed, len(b.incidents))
	gaps := s.skillGaps(b)

	gapFactor := 1.0
	if len(gaps) > 0 {
		gapFactor = math.Max(0, 1-float64(len(gaps))/5)
	}
	score := 0.5*(1-avg/20) + 0.4*closure + 0.1*gapFactor

	return model.ReadinessRecord{
		Region:             b.name,
		AvgResponseMinutes: geo.RoundTo(avg, 2),
		ClosureRate:        geo.RoundTo(closure, 2),
		SkillGaps:          gaps,
		Score:              geo.RoundTo(clamp01(score), 2),
	}
}

// skillGaps unions the resource gaps of playbooks for the first active
// incidents of the region, pooled on the region's responders. Resolved and
// closed incidents count for closure only.
func (s *Scorer) skillGaps(b *bucket) []string {
	seen := make(map[string]bool)
	gaps := []string{}
	n := 0
	for _, inc := range b.incidents {
		if n == s.sampleSize {
			break
		}
		if !inc.Active() {
			continue
		}
		n++
		plan := s.generator.Generate(inc, b.responders, nil)
		for _, g := range plan.ResourceGaps {
			if !seen[g] {
				seen[g] = true
				gaps = append(gaps, g)
			}
		}
	}
	return gaps
}

// DetectAnomalies returns the reports whose suspicion score reaches
// AnomalyThreshold, in input order.
func (s *Scorer) DetectAnomalies(incidents []model.Incident, responders []model.Responder) []model.AnomalyRecord {
	incidents = s.validIncidents(incidents)
	byID := make(map[string]model.Responder, len(responders))
	for _, r := range responders {
		if _, ok := byID[r.ID]; !ok && r.ID != "" {
			byID[r.ID] = r
		}
	}

	out := []model.AnomalyRecord{}
	for _, inc := range incidents {
		score, reasons := suspicion(inc, byID)
		if score < AnomalyThreshold {
			continue
		}
		rec := model.AnomalyRecord{
			IncidentID:     inc.ID,
			Region:         inc.LocationName,
			SuspicionScore: geo.RoundTo(math.Min(score, 1), 2),
			Reason:         strings.Join(reasons, "; "),
		}
		out = append(out, rec)
		s.logger.Warnf("incident %s flagged (%.2f): %s", rec.IncidentID, rec.SuspicionScore, rec.Reason)
		if s.bus != nil {
			s.bus.Publish(events.AnomalyEvent{Record: rec})
		}
	}
	if r, ok := s.metrics.(metrics.AnomalyRecorder); ok && len(out) > 0 {
		if err := r.RecordAnomalies(time.Now(), out); err != nil {
			s.logger.Errorf("record anomalies: %v", err)
		}
	}
	return out
}

func suspicion(inc model.Incident, responders map[string]model.Responder) (float64, []string) {
	var (
		score   float64
		reasons []string
	)
	reporter, known := responders[inc.ReportedBy]
	switch {
	case !known:
		score += 0.3
		reasons = append(reasons, "reporter unknown")
	case reporter.BaselineTrust()/100 < 0.3:
		score += 0.3
		reasons = append(reasons, "low reporter trust")
	}

	confidence := DefaultConfidence
	if inc.Confidence != nil {
		confidence = *inc.Confidence
	}
	if confidence < 0.4 {
		score += 0.4
		reasons = append(reasons, "low classifier confidence")
	}

	text := strings.ToLower(inc.Description + " " + inc.TranslatedText)
	for _, term := range Denylist {
		if strings.Contains(text, term) {
			score += 0.4
			reasons = append(reasons, "denylisted term "+term)
			break
		}
	}
	return score, reasons
}

func (s *Scorer) validIncidents(incidents []model.Incident) []model.Incident {
	valid, errs := model.SplitValid(incidents)
	for _, err := range errs {
		s.logger.Warnf("skip incident: %v", err)
		monitoring.CaptureRejected("readiness", "incident", err)
	}
	return valid
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
