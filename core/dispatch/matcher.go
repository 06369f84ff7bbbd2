// Package dispatch matches responders to active incidents and ranks the
// resulting suggestions.
package dispatch

import (
	"context"
	"sort"
	"time"

	"github.com/cryptonique0/cecd/core/dispatch/logging"
	"github.com/cryptonique0/cecd/core/events"
	"github.com/cryptonique0/cecd/core/geo"
	"github.com/cryptonique0/cecd/core/logger"
	"github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/cryptonique0/cecd/core/monitoring"
	"github.com/cryptonique0/cecd/core/mqtt"
	"github.com/cryptonique0/cecd/core/routing"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

// Matcher picks the nearest eligible responder for every open incident.
// Build is a pure query; Suggest additionally records the batch.
type Matcher struct {
	planner   *routing.Planner
	max       int
	logger    logger.Logger
	metrics   metrics.MetricsSink
	bus       eventbus.EventBus
	store     logging.LogStore
	publisher mqtt.Publisher
	now       func() time.Time
}

// Option customises a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(m *Matcher) { m.logger = logger.OrNop(l) } }

// WithMetrics sets the sink receiving every batch.
func WithMetrics(s metrics.MetricsSink) Option {
	return func(m *Matcher) {
		if s != nil {
			m.metrics = s
		}
	}
}

// WithEventBus publishes a SuggestionEvent per batch on bus.
func WithEventBus(bus eventbus.EventBus) Option { return func(m *Matcher) { m.bus = bus } }

// WithLogStore appends every batch to store.
func WithLogStore(store logging.LogStore) Option {
	return func(m *Matcher) {
		if store != nil {
			m.store = store
		}
	}
}

// WithPublisher notifies field units of each suggestion.
func WithPublisher(p mqtt.Publisher) Option {
	return func(m *Matcher) {
		if p != nil {
			m.publisher = p
		}
	}
}

// WithMaxSuggestions lowers the batch cap. Values outside
// [1,DefaultMaxSuggestions] keep the default.
func WithMaxSuggestions(n int) Option {
	return func(m *Matcher) {
		if n > 0 && n <= DefaultMaxSuggestions {
			m.max = n
		}
	}
}

// WithClock overrides the time source used for log records.
func WithClock(now func() time.Time) Option { return func(m *Matcher) { m.now = now } }

// NewMatcher creates a Matcher building routes with planner. A nil planner
// uses clear skies at the baseline speed.
func NewMatcher(planner *routing.Planner, opts ...Option) *Matcher {
	if planner == nil {
		planner = routing.NewPlanner(nil, 0)
	}
	m := &Matcher{
		planner:   planner,
		max:       DefaultMaxSuggestions,
		logger:    logger.NopLogger{},
		metrics:   metrics.NopSink{},
		store:     logging.NopStore{},
		publisher: mqtt.NopPublisher{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Result is the outcome of one matcher run.
type Result struct {
	Suggestions []model.DispatchSuggestion
	// Skipped counts closed, malformed or unreachable incidents.
	Skipped int
}

type candidate struct {
	r        model.Responder
	lat, lon float64
}

// Build returns at most the configured number of suggestions, sorted by
// priority rank then ascending ETA. Closed incidents are ignored, as are
// incidents without coordinates or without an eligible responder.
// Malformed records are skipped and reported.
func (m *Matcher) Build(incidents []model.Incident, responders []model.Responder) Result {
	pool := m.eligible(responders)
	var res Result
	for _, inc := range incidents {
		if inc.Status == model.StatusClosed {
			res.Skipped++
			skippedTotal.WithLabelValues("closed").Inc()
			continue
		}
		if err := inc.Validate(); err != nil {
			m.logger.Warnf("skip incident: %v", err)
			monitoring.CaptureRejected("matcher", "incident", err)
			res.Skipped++
			skippedTotal.WithLabelValues("invalid").Inc()
			continue
		}
		lat, lon, ok := inc.Position()
		if !ok {
			m.logger.Debugf("incident %s has no coordinates", inc.ID)
			res.Skipped++
			skippedTotal.WithLabelValues("no_position").Inc()
			continue
		}
		best, dist, ok := nearest(pool, lat, lon)
		if !ok {
			m.logger.Debugf("no eligible responder for incident %s", inc.ID)
			res.Skipped++
			skippedTotal.WithLabelValues("no_responder").Inc()
			continue
		}
		route := m.planner.Build(best, inc)
		res.Suggestions = append(res.Suggestions, model.DispatchSuggestion{
			IncidentID:      inc.ID,
			IncidentTitle:   inc.Title,
			Location:        inc.LocationName,
			ResponderID:     best.ID,
			ResponderName:   best.Name,
			ResponderStatus: best.Status,
			DistanceKm:      geo.RoundTo(dist, 2),
			ETAMinutes:      route.ETAMinutes,
			Priority:        model.PriorityFor(inc.Severity),
			Route:           route,
		})
	}
	sort.SliceStable(res.Suggestions, func(i, j int) bool {
		a, b := res.Suggestions[i], res.Suggestions[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.ETAMinutes < b.ETAMinutes
	})
	if len(res.Suggestions) > m.max {
		res.Suggestions = res.Suggestions[:m.max]
	}
	return res
}

// Suggest runs Build and records the batch on the configured metrics sink,
// log store, event bus and field publisher. Recording failures are logged
// and never change the returned suggestions.
func (m *Matcher) Suggest(ctx context.Context, incidents []model.Incident, responders []model.Responder) []model.DispatchSuggestion {
	res := m.Build(incidents, responders)
	now := m.now()
	for _, s := range res.Suggestions {
		suggestionsTotal.WithLabelValues(string(s.Priority)).Inc()
		suggestionETA.Observe(float64(s.ETAMinutes))
	}
	if err := m.metrics.RecordSuggestions(now, res.Suggestions); err != nil {
		m.logger.Errorf("record suggestions: %v", err)
	}
	rec := logging.LogRecord{
		Timestamp:   now,
		IncidentIDs: incidentIDs(incidents),
		Responders:  len(responders),
		Skipped:     res.Skipped,
		Suggestions: res.Suggestions,
	}
	if err := m.store.Append(ctx, rec); err != nil {
		m.logger.Errorf("append dispatch log: %v", err)
	}
	for _, s := range res.Suggestions {
		if err := m.publisher.PublishSuggestion(ctx, s); err != nil {
			publishFailures.Inc()
			m.logger.Warnf("publish suggestion for %s: %v", s.IncidentID, err)
		}
	}
	if m.bus != nil {
		m.bus.Publish(events.SuggestionEvent{Suggestions: res.Suggestions, Skipped: res.Skipped, At: now})
	}
	m.logger.Infow("dispatch suggestions built", map[string]any{
		"incidents":   len(incidents),
		"responders":  len(responders),
		"suggestions": len(res.Suggestions),
		"skipped":     res.Skipped,
	})
	return res.Suggestions
}

// Route builds the route brief for one responder to incident pair.
func (m *Matcher) Route(r model.Responder, inc model.Incident) model.RoutePlan {
	return m.planner.Build(r, inc)
}

// eligible keeps valid responders with coordinates that are not off duty,
// preserving input order.
func (m *Matcher) eligible(responders []model.Responder) []candidate {
	out := make([]candidate, 0, len(responders))
	for _, r := range responders {
		if err := r.Validate(); err != nil {
			m.logger.Warnf("skip responder: %v", err)
			monitoring.CaptureRejected("matcher", "responder", err)
			continue
		}
		if r.Status == model.ResponderOffDuty {
			continue
		}
		lat, lon, ok := r.Position()
		if !ok {
			continue
		}
		out = append(out, candidate{r: r, lat: lat, lon: lon})
	}
	return out
}

// nearest returns the closest candidate; the first one wins ties.
func nearest(pool []candidate, lat, lon float64) (model.Responder, float64, bool) {
	var (
		best  model.Responder
		bestD float64
		found bool
	)
	for _, c := range pool {
		d := geo.HaversineKm(c.lat, c.lon, lat, lon)
		if !found || d < bestD {
			best, bestD, found = c.r, d, true
		}
	}
	return best, bestD, found
}

func incidentIDs(incidents []model.Incident) []string {
	ids := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		if inc.ID != "" {
			ids = append(ids, inc.ID)
		}
	}
	return ids
}
