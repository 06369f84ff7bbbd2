// Package logistics forecasts regional resource shortages and proposes
// resupply routes for low-fuel assets.
package logistics

import (
	"context"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cryptonique0/cecd/core/assetstore"
	"github.com/cryptonique0/cecd/core/events"
	"github.com/cryptonique0/cecd/core/geo"
	"github.com/cryptonique0/cecd/core/logger"
	"github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/cryptonique0/cecd/core/monitoring"
	"github.com/cryptonique0/cecd/core/mqtt"
	"github.com/cryptonique0/cecd/core/playbook"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

// Shortage labels.
const (
	ShortageVehicles    = "Vehicles"
	ShortageFuel        = "Fuel"
	ShortageMedicalKits = "Medical Kits"
)

const (
	// DefaultSampleSize bounds the playbooks generated per region.
	DefaultSampleSize = 5
	// DefaultResupplyThreshold is the fuel percentage under which an asset
	// gets a resupply route.
	DefaultResupplyThreshold = 30.0
	// FuelAlertAverage is the regional average fuel under which Fuel fires.
	FuelAlertAverage = 35.0
	// ResupplyNote accompanies every resupply route.
	ResupplyNote = "Refuel before next deployment; stage fuel with the nearest active incident."
)

// Config tunes the forecaster.
type Config struct {
	SampleSize        int     `json:"sample_size"`
	ResupplyThreshold float64 `json:"resupply_threshold"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
	if c.ResupplyThreshold <= 0 {
		c.ResupplyThreshold = DefaultResupplyThreshold
	}
}

// Forecaster reads assets from a store and resource requirements from
// generated playbooks.
type Forecaster struct {
	generator *playbook.Generator
	assets    assetstore.Store
	cfg       Config
	logger    logger.Logger
	metrics   metrics.MetricsSink
	bus       eventbus.EventBus
	publisher mqtt.Publisher
}

// Option customises a Forecaster.
type Option func(*Forecaster)

// WithConfig overrides the sample size and resupply threshold.
func WithConfig(c Config) Option {
	return func(f *Forecaster) {
		c.SetDefaults()
		f.cfg = c
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(f *Forecaster) { f.logger = logger.OrNop(l) } }

// WithMetrics records forecasts on sinks implementing ShortageRecorder.
func WithMetrics(s metrics.MetricsSink) Option { return func(f *Forecaster) { f.metrics = s } }

// WithEventBus publishes a ShortageEvent per region with shortages.
func WithEventBus(bus eventbus.EventBus) Option { return func(f *Forecaster) { f.bus = bus } }

// WithPublisher notifies field units of resupply routes.
func WithPublisher(p mqtt.Publisher) Option {
	return func(f *Forecaster) {
		if p != nil {
			f.publisher = p
		}
	}
}

// NewForecaster returns a Forecaster. A nil generator uses the default
// playbook profiles.
func NewForecaster(gen *playbook.Generator, assets assetstore.Store, opts ...Option) *Forecaster {
	if gen == nil {
		gen = playbook.NewGenerator()
	}
	f := &Forecaster{
		generator: gen,
		assets:    assets,
		logger:    logger.NopLogger{},
		publisher: mqtt.NopPublisher{},
	}
	f.cfg.SetDefaults()
	for _, o := range opts {
		o(f)
	}
	return f
}

type region struct {
	name       string
	incidents  []model.Incident
	responders []model.Responder
	assets     []model.Asset
}

// ForecastShortages returns one record per region, in first-seen order of
// incidents then assets. A region's shortage list may be empty.
func (f *Forecaster) ForecastShortages(incidents []model.Incident, responders []model.Responder) []model.ShortageForecast {
	incidents = f.validIncidents(incidents)
	regions := f.group(incidents, responders, f.listAssets())

	out := make([]model.ShortageForecast, 0, len(regions))
	for _, r := range regions {
		out = append(out, model.ShortageForecast{Region: r.name, Shortages: f.shortages(r)})
	}
	f.record(out)
	return out
}

func (f *Forecaster) shortages(r *region) []string {
	labels := f.requiredResources(r)
	shortages := []string{}

	vehicles := 0
	kits := 0
	var fuelLevels []float64
	for _, a := range r.assets {
		if a.Type == model.AssetVehicle {
			vehicles++
		}
		if a.Type == model.AssetMedicalKit && a.HasStock() {
			kits++
		}
		if a.FuelPercent != nil {
			fuelLevels = append(fuelLevels, *a.FuelPercent)
		}
	}

	if len(r.incidents) > vehicles {
		shortages = append(shortages, ShortageVehicles)
	}
	if anyContains(labels, "fuel") && average(fuelLevels) < FuelAlertAverage {
		shortages = append(shortages, ShortageFuel)
	}
	if anyContains(labels, "med") && kits < len(r.incidents) {
		shortages = append(shortages, ShortageMedicalKits)
	}
	return shortages
}

// requiredResources unions the resources of playbooks generated for the
// first active incidents of the region.
func (f *Forecaster) requiredResources(r *region) []string {
	seen := make(map[string]bool)
	var labels []string
	n := 0
	for _, inc := range r.incidents {
		if n == f.cfg.SampleSize {
			break
		}
		if !inc.Active() {
			continue
		}
		n++
		plan := f.generator.Generate(inc, r.responders, nil)
		for _, res := range plan.RequiredResources() {
			if !seen[res] {
				seen[res] = true
				labels = append(labels, res)
			}
		}
	}
	return labels
}

// PreallocateResupplyRoutes proposes one route per asset under the resupply
// threshold, toward the nearest active incident with coordinates. Assets
// without coordinates are skipped.
func (f *Forecaster) PreallocateResupplyRoutes(ctx context.Context, incidents []model.Incident) []model.ResupplyRoute {
	var targets []model.Incident
	for _, inc := range f.validIncidents(incidents) {
		if _, _, ok := inc.Position(); ok && inc.Active() {
			targets = append(targets, inc)
		}
	}
	routes := []model.ResupplyRoute{}
	if len(targets) == 0 {
		return routes
	}
	for _, a := range f.listAssets() {
		if a.FuelPercent == nil || *a.FuelPercent >= f.cfg.ResupplyThreshold {
			continue
		}
		lat, lon, ok := a.Position()
		if !ok {
			f.logger.Debugf("asset %s has no coordinates, no resupply route", a.ID)
			continue
		}
		var (
			best  model.Incident
			bestD float64
		)
		for i, inc := range targets {
			ilat, ilon, _ := inc.Position()
			d := geo.HaversineKm(lat, lon, ilat, ilon)
			if i == 0 || d < bestD {
				best, bestD = inc, d
			}
		}
		route := model.ResupplyRoute{
			AssetID:      a.ID,
			AssetName:    a.Name,
			From:         a.Location,
			ToIncidentID: best.ID,
			DistanceKm:   geo.RoundTo(bestD, 1),
			Note:         ResupplyNote,
		}
		routes = append(routes, route)
		if err := f.publisher.PublishResupply(ctx, route); err != nil {
			f.logger.Warnf("publish resupply for %s: %v", a.ID, err)
		}
	}
	f.logger.Infow("resupply routes prepared", map[string]any{"routes": len(routes)})
	return routes
}

func (f *Forecaster) listAssets() []model.Asset {
	if f.assets == nil {
		return nil
	}
	return f.assets.List(assetstore.Filter{})
}

func (f *Forecaster) validIncidents(incidents []model.Incident) []model.Incident {
	valid, errs := model.SplitValid(incidents)
	for _, err := range errs {
		f.logger.Warnf("skip incident: %v", err)
		monitoring.CaptureRejected("logistics", "incident", err)
	}
	return valid
}

func (f *Forecaster) group(incidents []model.Incident, responders []model.Responder, assets []model.Asset) []*region {
	var order []*region
	byName := make(map[string]*region)
	get := func(name string) *region {
		r, ok := byName[name]
		if !ok {
			r = &region{name: name}
			byName[name] = r
			order = append(order, r)
		}
		return r
	}
	for _, inc := range incidents {
		r := get(inc.LocationName)
		r.incidents = append(r.incidents, inc)
	}
	for _, a := range assets {
		r := get(a.Location)
		r.assets = append(r.assets, a)
	}
	for _, resp := range responders {
		if r, ok := byName[resp.Location]; ok {
			r.responders = append(r.responders, resp)
		}
	}
	return order
}

func (f *Forecaster) record(out []model.ShortageForecast) {
	var flagged []model.ShortageForecast
	for _, fc := range out {
		if len(fc.Shortages) == 0 {
			continue
		}
		flagged = append(flagged, fc)
		if f.bus != nil {
			f.bus.Publish(events.ShortageEvent{Forecast: fc})
		}
	}
	if r, ok := f.metrics.(metrics.ShortageRecorder); ok {
		if err := r.RecordShortages(time.Now(), out); err != nil {
			f.logger.Errorf("record shortages: %v", err)
		}
	}
	f.logger.Infow("shortage forecast", map[string]any{"regions": len(out), "flagged": len(flagged)})
}

func anyContains(labels []string, sub string) bool {
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l), sub) {
			return true
		}
	}
	return false
}

// average is 0 for an empty slice.
func average(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}
