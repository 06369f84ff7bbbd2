// Package geo provides great-circle distance and travel time estimates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// MinETAMinutes is the floor applied to every travel time estimate.
const MinETAMinutes = 3

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HaversineKm returns the great-circle distance between two coordinates in
// kilometres.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if a > 1 {
		a = 1
	}
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	return HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon)
}

// TravelMinutes converts a distance into minutes at speedKmh, scales the
// result by every multiplier and rounds to the nearest minute. The result is
// never below MinETAMinutes. A non-positive speed yields MinETAMinutes.
func TravelMinutes(distanceKm, speedKmh float64, multipliers ...float64) int {
	if speedKmh <= 0 || distanceKm <= 0 {
		return MinETAMinutes
	}
	minutes := distanceKm / speedKmh * 60
	for _, m := range multipliers {
		if m > 0 {
			minutes *= m
		}
	}
	eta := int(math.Round(minutes))
	if eta < MinETAMinutes {
		return MinETAMinutes
	}
	return eta
}

// Midpoint returns the geographic midpoint of the great-circle segment a-b.
func Midpoint(a, b Point) Point {
	rad := math.Pi / 180
	lat1, lon1 := a.Lat*rad, a.Lon*rad
	lat2 := b.Lat * rad
	dLon := (b.Lon - a.Lon) * rad
	bx := math.Cos(lat2) * math.Cos(dLon)
	by := math.Cos(lat2) * math.Sin(dLon)
	lat := math.Atan2(math.Sin(lat1)+math.Sin(lat2), math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by))
	lon := lon1 + math.Atan2(by, math.Cos(lat1)+bx)
	return Point{Lat: lat / rad, Lon: math.Mod(lon/rad+540, 360) - 180}
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
