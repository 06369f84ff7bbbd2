// Package trust turns decaying trust signals into a bounded responder score.
// Decay is always recomputed from raw values and elapsed time; nothing
// decayed is stored.
package trust

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cryptonique0/cecd/core/logger"
	"github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/model"
)

// Calculator builds trust profiles.
type Calculator struct {
	now     func() time.Time
	logger  logger.Logger
	metrics metrics.MetricsSink
}

// Option customises a Calculator.
type Option func(*Calculator)

// WithClock sets the evaluation time source.
func WithClock(now func() time.Time) Option { return func(c *Calculator) { c.now = now } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(c *Calculator) { c.logger = logger.OrNop(l) } }

// WithMetrics records profiles on sinks implementing TrustRecorder.
func WithMetrics(m metrics.MetricsSink) Option { return func(c *Calculator) { c.metrics = m } }

// NewCalculator returns a Calculator evaluating decay at time.Now.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now, logger: logger.NopLogger{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Decay returns value halved every halfLifeHours over elapsed. A
// non-positive half-life disables decay and negative elapsed time counts as
// zero.
func Decay(value, halfLifeHours float64, elapsed time.Duration) float64 {
	if halfLifeHours <= 0 {
		return value
	}
	hours := elapsed.Hours()
	if hours < 0 {
		hours = 0
	}
	return value * math.Pow(0.5, hours/halfLifeHours)
}

// Profile computes the score of r from components. Typed signals missing a
// half-life or a weight get their defaults first. The result is the weighted
// mean of the decayed values, rounded and clamped to [0,100]. With no
// components, or no positive weight, the responder's baseline is used.
func (c *Calculator) Profile(r model.Responder, components []model.TrustComponent) model.TrustProfile {
	now := c.now()
	components = Fill(components)
	decayed := make([]model.TrustComponent, len(components))
	values := make([]float64, 0, len(components))
	weights := make([]float64, 0, len(components))
	for i, comp := range components {
		comp.DecayedValue = Decay(comp.Value, comp.HalfLifeHours, now.Sub(comp.LastUpdated))
		decayed[i] = comp
		if comp.Weight > 0 {
			values = append(values, comp.DecayedValue)
			weights = append(weights, comp.Weight)
		}
	}

	score := r.BaselineTrust()
	if len(values) > 0 {
		score = stat.Mean(values, weights)
	} else if len(components) > 0 {
		c.logger.Debugf("responder %s: no weighted trust component, using baseline", r.ID)
	}

	p := model.TrustProfile{
		ResponderID:    r.ID,
		Score:          clampScore(score),
		Components:     decayed,
		LastComputedAt: now,
	}
	if rec, ok := c.metrics.(metrics.TrustRecorder); ok {
		if err := rec.RecordTrustProfile(p); err != nil {
			c.logger.Errorf("record trust profile: %v", err)
		}
	}
	return p
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}
