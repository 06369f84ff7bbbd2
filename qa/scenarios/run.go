package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonique0/cecd/core/assetstore"
	"github.com/cryptonique0/cecd/core/dispatch"
	"github.com/cryptonique0/cecd/core/environment"
	"github.com/cryptonique0/cecd/core/factory"
	"github.com/cryptonique0/cecd/core/logistics"
	"github.com/cryptonique0/cecd/core/playbook"
	"github.com/cryptonique0/cecd/core/readiness"
	"github.com/cryptonique0/cecd/core/routing"
	"github.com/cryptonique0/cecd/core/trust"
	"github.com/cryptonique0/cecd/infra/metrics"
	"github.com/cryptonique0/cecd/infra/mqtt"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

// Engine bundles the components a scenario drives.
type Engine struct {
	Matcher    *dispatch.Matcher
	Forecaster *logistics.Forecaster
	Scorer     *readiness.Scorer
	Trust      *trust.Calculator
	Assets     *assetstore.MemoryStore
	Publisher  *mqtt.MockPublisher
}

// NewEngine wires the components for sc on a private Prometheus registry.
func NewEngine(t *testing.T, sc *Scenario) *Engine {
	t.Helper()
	provider, err := environment.New(factory.ModuleConfig{
		Type: "fixed",
		Conf: map[string]any{"weather": sc.Environment.Weather, "traffic": sc.Environment.Traffic},
	})
	require.NoError(t, err)

	sink, err := metrics.NewPromSinkWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	bus := eventbus.New()
	t.Cleanup(bus.Close)

	pub := mqtt.NewMockPublisher()
	for _, id := range sc.FailPublish {
		pub.FailIDs[id] = true
	}

	assets := assetstore.NewMemoryStore(bus)
	for _, err := range assets.Load(sc.Snapshot.Assets) {
		t.Logf("scenario %s: asset rejected: %v", sc.Name, err)
	}

	gen := playbook.NewGenerator(playbook.WithClock(sc.Snapshot.Now))
	opts := []dispatch.Option{
		dispatch.WithMetrics(sink),
		dispatch.WithPublisher(pub),
		dispatch.WithEventBus(bus),
	}
	if sc.MaxSuggestions > 0 {
		opts = append(opts, dispatch.WithMaxSuggestions(sc.MaxSuggestions))
	}
	return &Engine{
		Matcher:    dispatch.NewMatcher(routing.NewPlanner(provider, 0), opts...),
		Forecaster: logistics.NewForecaster(gen, assets, logistics.WithMetrics(sink), logistics.WithPublisher(pub), logistics.WithEventBus(bus)),
		Scorer:     readiness.NewScorer(gen, readiness.WithMetrics(sink), readiness.WithEventBus(bus)),
		Trust:      trust.NewCalculator(trust.WithClock(sc.Snapshot.Now), trust.WithMetrics(sink)),
		Assets:     assets,
		Publisher:  pub,
	}
}

//nolint:gocyclo
func RunScenario(t *testing.T, sc *Scenario) {
	e := NewEngine(t, sc)
	snap := sc.Snapshot
	exp := sc.Expected
	ctx := context.Background()

	res := e.Matcher.Build(snap.Incidents, snap.Responders)
	assert.Equal(t, exp.Skipped, res.Skipped, "skipped incidents")
	suggestions := e.Matcher.Suggest(ctx, snap.Incidents, snap.Responders)
	if assert.Len(t, suggestions, len(exp.Suggestions), "suggestions") {
		for i, want := range exp.Suggestions {
			got := suggestions[i]
			assert.Equal(t, want.Incident, got.IncidentID, "suggestion %d incident", i)
			assert.Equal(t, want.Responder, got.ResponderID, "suggestion %d responder", i)
			if want.Priority != "" {
				assert.Equal(t, want.Priority, string(got.Priority), "suggestion %d priority", i)
			}
		}
	}
	if exp.PublishedSuggestions != nil {
		n, _ := e.Publisher.Counts()
		assert.Equal(t, *exp.PublishedSuggestions, n, "published suggestions")
	}

	if exp.Anomalies != nil {
		var ids []string
		for _, a := range e.Scorer.DetectAnomalies(snap.Incidents, snap.Responders) {
			ids = append(ids, a.IncidentID)
		}
		assert.ElementsMatch(t, exp.Anomalies, ids, "anomalies")
	}

	if exp.Shortages != nil {
		got := make(map[string][]string)
		for _, f := range e.Forecaster.ForecastShortages(snap.Incidents, snap.Responders) {
			got[f.Region] = f.Shortages
		}
		for region, want := range exp.Shortages {
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, got[region], "shortages in %s", region)
		}
	}

	if exp.Resupply != nil {
		routes := e.Forecaster.PreallocateResupplyRoutes(ctx, snap.Incidents)
		if assert.Len(t, routes, len(exp.Resupply), "resupply routes") {
			for i, want := range exp.Resupply {
				assert.Equal(t, want.Asset, routes[i].AssetID)
				assert.Equal(t, want.Incident, routes[i].ToIncidentID)
			}
		}
	}

	if exp.Readiness != nil {
		got := make(map[string]float64)
		for _, r := range e.Scorer.ReadinessByRegion(snap.Incidents, snap.Responders) {
			got[r.Region] = r.Score
		}
		for region, want := range exp.Readiness {
			assert.InDelta(t, want, got[region], 1e-9, "readiness of %s", region)
		}
	}

	for id, want := range exp.Trust {
		r, ok := snap.Responder(id)
		require.True(t, ok, "responder %s", id)
		assert.Equal(t, want, e.Trust.Profile(r, snap.Trust[id]).Score, "trust of %s", id)
	}
}
