// Package environment samples the weather and traffic conditions that scale
// responder travel times.
package environment

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cryptonique0/cecd/core/factory"
	"github.com/cryptonique0/cecd/core/geo"
)

// Weather is a weather condition with its travel time multiplier.
type Weather struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
	Advisory   string  `json:"advisory"`
}

// Traffic is a traffic condition with its travel time multiplier.
type Traffic struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// Conditions groups the factors sampled for one route.
type Conditions struct {
	Weather Weather
	Traffic Traffic
}

// Provider supplies the environmental conditions between two points.
type Provider interface {
	Conditions(from, to geo.Point) Conditions
}

var weatherCatalog = []Weather{
	{Label: "Clear", Multiplier: 1.0, Advisory: "Conditions are clear; proceed at standard response speed."},
	{Label: "Heavy Rain", Multiplier: 1.25, Advisory: "Heavy rain: reduce speed and watch for standing water."},
	{Label: "High Winds", Multiplier: 1.15, Advisory: "High winds: secure loose equipment and avoid exposed overpasses."},
	{Label: "Flooded Roads", Multiplier: 1.6, Advisory: "Flooded roads reported: use elevated routes and do not drive through water."},
	{Label: "Snow/Ice", Multiplier: 1.45, Advisory: "Snow and ice: use chains where required and extend braking distance."},
}

var trafficCatalog = []Traffic{
	{Label: "Free Flow", Multiplier: 1.0},
	{Label: "Moderate", Multiplier: 1.15},
	{Label: "Heavy", Multiplier: 1.35},
	{Label: "Incident Nearby", Multiplier: 1.25},
	{Label: "Checkpoint", Multiplier: 1.1},
}

// WeatherConditions returns a copy of the known weather conditions.
func WeatherConditions() []Weather { return append([]Weather(nil), weatherCatalog...) }

// TrafficConditions returns a copy of the known traffic conditions.
func TrafficConditions() []Traffic { return append([]Traffic(nil), trafficCatalog...) }

// LookupWeather finds a weather condition by label.
func LookupWeather(label string) (Weather, bool) {
	for _, w := range weatherCatalog {
		if w.Label == label {
			return w, true
		}
	}
	return Weather{}, false
}

// LookupTraffic finds a traffic condition by label.
func LookupTraffic(label string) (Traffic, bool) {
	for _, t := range trafficCatalog {
		if t.Label == label {
			return t, true
		}
	}
	return Traffic{}, false
}

// RandomProvider samples weather and traffic uniformly at random. It is safe
// for concurrent use.
type RandomProvider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomProvider returns a provider seeded with seed. The same seed yields
// the same sequence of conditions.
func NewRandomProvider(seed int64) *RandomProvider {
	return &RandomProvider{rnd: rand.New(rand.NewSource(seed))}
}

// Conditions implements Provider.
func (p *RandomProvider) Conditions(_, _ geo.Point) Conditions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Conditions{
		Weather: weatherCatalog[p.rnd.Intn(len(weatherCatalog))],
		Traffic: trafficCatalog[p.rnd.Intn(len(trafficCatalog))],
	}
}

// FixedProvider always returns the same conditions.
type FixedProvider struct {
	Weather Weather
	Traffic Traffic
}

// ClearSkies returns a FixedProvider with neutral multipliers.
func ClearSkies() FixedProvider {
	return FixedProvider{Weather: weatherCatalog[0], Traffic: trafficCatalog[0]}
}

// Conditions implements Provider.
func (p FixedProvider) Conditions(_, _ geo.Point) Conditions {
	return Conditions{Weather: p.Weather, Traffic: p.Traffic}
}

var registry = factory.NewRegistry[Provider]()

func init() {
	_ = registry.Register("random", func(conf map[string]any) (Provider, error) {
		var c struct {
			Seed int64 `json:"seed"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Seed == 0 {
			c.Seed = time.Now().UnixNano()
		}
		return NewRandomProvider(c.Seed), nil
	})
	_ = registry.Register("fixed", func(conf map[string]any) (Provider, error) {
		var c struct {
			Weather string `json:"weather"`
			Traffic string `json:"traffic"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		p := ClearSkies()
		if c.Weather != "" {
			w, ok := LookupWeather(c.Weather)
			if !ok {
				return nil, fmt.Errorf("unknown weather %q", c.Weather)
			}
			p.Weather = w
		}
		if c.Traffic != "" {
			t, ok := LookupTraffic(c.Traffic)
			if !ok {
				return nil, fmt.Errorf("unknown traffic %q", c.Traffic)
			}
			p.Traffic = t
		}
		return p, nil
	})
}

// Register adds a provider factory, e.g. one backed by a live weather feed.
func Register(name string, f factory.Factory[Provider]) error {
	return registry.Register(name, f)
}

// New builds a Provider from its module configuration. An empty type
// selects the random provider.
func New(cfg factory.ModuleConfig) (Provider, error) {
	if cfg.Type == "" {
		cfg.Type = "random"
	}
	return registry.Create(cfg)
}
