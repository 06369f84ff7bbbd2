package model

import (
	"fmt"
	"strings"
)

// AssetType enumerates the kinds of equipment tracked by the registry.
type AssetType string

const (
	AssetVehicle    AssetType = "Vehicle"
	AssetGenerator  AssetType = "Generator"
	AssetMedicalKit AssetType = "MedicalKit"
	AssetFuelTruck  AssetType = "FuelTruck"
	AssetWaterPump  AssetType = "WaterPump"
)

// AssetStatus is the operational state of an asset.
type AssetStatus string

const (
	AssetAvailable   AssetStatus = "Available"
	AssetAssigned    AssetStatus = "Assigned"
	AssetMaintenance AssetStatus = "Maintenance"
	AssetLowFuel     AssetStatus = "LowFuel"
)

// LowFuelThreshold is the fuel percentage below which an idle asset is
// flagged LowFuel.
const LowFuelThreshold = 25.0

// Asset is a piece of equipment. AssignedIncidentID is set if and only if
// Status is AssetAssigned.
type Asset struct {
	ID                 string      `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	Type               AssetType   `json:"type" yaml:"type"`
	Status             AssetStatus `json:"status" yaml:"status"`
	Location           string      `json:"location" yaml:"location"` // region label
	Latitude           *float64    `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude          *float64    `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	FuelPercent        *float64    `json:"fuelPercent,omitempty" yaml:"fuel_percent,omitempty"`
	Stock              *int        `json:"stock,omitempty" yaml:"stock,omitempty"`
	CapacityLiters     *float64    `json:"capacityLiters,omitempty" yaml:"capacity_liters,omitempty"`
	AssignedIncidentID string      `json:"assignedIncidentId,omitempty" yaml:"assigned_incident_id,omitempty"`
}

// Validate checks identifiers and ranges.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("asset: %w", ErrMissingID)
	}
	if (a.Latitude == nil) != (a.Longitude == nil) {
		return fmt.Errorf("asset %s: %w", a.ID, ErrInvalidCoordinates)
	}
	if a.Latitude != nil && !validLatLon(*a.Latitude, *a.Longitude) {
		return fmt.Errorf("asset %s: %w", a.ID, ErrInvalidCoordinates)
	}
	if a.FuelPercent != nil && (*a.FuelPercent < 0 || *a.FuelPercent > 100) {
		return fmt.Errorf("asset %s: %w", a.ID, ErrInvalidFuel)
	}
	return nil
}

// Normalize enforces the status invariants: the incident reference only
// survives on assigned assets, and an idle asset under LowFuelThreshold is
// LowFuel. A LowFuel asset refuelled above the threshold becomes Available.
func (a Asset) Normalize() Asset {
	if a.Status == "" {
		a.Status = AssetAvailable
	}
	if a.Status == AssetAssigned && a.AssignedIncidentID == "" {
		a.Status = AssetAvailable
	}
	if a.Status != AssetAssigned {
		a.AssignedIncidentID = ""
	}
	if a.FuelPercent != nil {
		low := *a.FuelPercent < LowFuelThreshold
		switch {
		case low && (a.Status == AssetAvailable):
			a.Status = AssetLowFuel
		case !low && a.Status == AssetLowFuel:
			a.Status = AssetAvailable
		}
	}
	return a
}

// Position returns the asset coordinates when both are known.
func (a Asset) Position() (lat, lon float64, ok bool) {
	if a.Latitude == nil || a.Longitude == nil {
		return 0, 0, false
	}
	return *a.Latitude, *a.Longitude, true
}

// HasStock reports whether the asset carries positive stock.
func (a Asset) HasStock() bool { return a.Stock != nil && *a.Stock > 0 }
