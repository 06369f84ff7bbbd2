// Package routing builds route briefs for a responder travelling to an
// incident under sampled environmental conditions.
package routing

import (
	"fmt"

	"github.com/cryptonique0/cecd/core/environment"
	"github.com/cryptonique0/cecd/core/geo"
	"github.com/cryptonique0/cecd/core/model"
)

// DefaultSpeedKmh is the baseline travel speed before multipliers.
const DefaultSpeedKmh = 60.0

// Planner builds RoutePlans. It is safe for concurrent use when its
// Provider is.
type Planner struct {
	provider environment.Provider
	speedKmh float64
}

// NewPlanner returns a Planner using provider for conditions. A nil provider
// falls back to clear skies and a non-positive speed to DefaultSpeedKmh.
func NewPlanner(provider environment.Provider, speedKmh float64) *Planner {
	if provider == nil {
		provider = environment.ClearSkies()
	}
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return &Planner{provider: provider, speedKmh: speedKmh}
}

// Build returns the route brief for r travelling to inc. Missing coordinates
// yield a zero distance and the minimum ETA; Build never fails.
func (p *Planner) Build(r model.Responder, inc model.Incident) model.RoutePlan {
	from, to, dist := endpoints(r, inc)
	cond := p.provider.Conditions(from, to)
	eta := geo.TravelMinutes(dist, p.speedKmh, cond.Weather.Multiplier, cond.Traffic.Multiplier)

	origin := r.Location
	if origin == "" {
		origin = r.Name
	}
	if origin == "" {
		origin = "Responder position"
	}
	dest := inc.LocationName
	if dest == "" {
		dest = inc.Title
	}

	mid := geo.Midpoint(from, to)
	steps := []string{
		fmt.Sprintf("Depart %s toward %s (%.1f km).", origin, dest, geo.RoundTo(dist, 1)),
		fmt.Sprintf("Weather: %s. %s", cond.Weather.Label, cond.Weather.Advisory),
		fmt.Sprintf("Traffic at route midpoint (%.3f, %.3f): %s.", mid.Lat, mid.Lon, cond.Traffic.Label),
		fmt.Sprintf("Final approach to %s; coordinate with on-scene command on arrival.", dest),
	}
	return model.RoutePlan{
		From:        origin,
		To:          dest,
		DistanceKm:  geo.RoundTo(dist, 2),
		ETAMinutes:  eta,
		Steps:       steps,
		RiskFactors: []string{cond.Weather.Label, cond.Traffic.Label},
		Advisory:    cond.Weather.Advisory,
	}
}

// endpoints resolves both positions and the distance between them. A missing
// position collapses onto the other endpoint so the distance is zero.
func endpoints(r model.Responder, inc model.Incident) (geo.Point, geo.Point, float64) {
	rLat, rLon, rok := r.Position()
	iLat, iLon, iok := inc.Position()
	from := geo.Point{Lat: rLat, Lon: rLon}
	to := geo.Point{Lat: iLat, Lon: iLon}
	switch {
	case rok && iok:
		return from, to, geo.Distance(from, to)
	case rok:
		return from, from, 0
	case iok:
		return to, to, 0
	}
	return from, to, 0
}
