package model

import (
	"fmt"
	"strings"
)

// ResponderStatus is the duty state reported by telemetry.
type ResponderStatus string

const (
	ResponderAvailable ResponderStatus = "Available"
	ResponderBusy      ResponderStatus = "Busy"
	ResponderOffDuty   ResponderStatus = "OffDuty"
)

// DefaultTrustScore is the baseline used when a responder has no stored score.
const DefaultTrustScore = 80.0

// Responder is a volunteer or professional that can be dispatched.
type Responder struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name"`
	Skills     []string        `json:"skills" yaml:"skills"`
	Status     ResponderStatus `json:"status" yaml:"status"`
	Location   string          `json:"location,omitempty" yaml:"location,omitempty"` // region label
	Latitude   *float64        `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude  *float64        `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	TrustScore *float64        `json:"trustScore,omitempty" yaml:"trust_score,omitempty"` // 0-100
}

// Validate checks the identifiers and coordinates of the responder.
func (r Responder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("responder: %w", ErrMissingID)
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return fmt.Errorf("responder %s: %w", r.ID, ErrInvalidCoordinates)
	}
	if r.Latitude != nil && !validLatLon(*r.Latitude, *r.Longitude) {
		return fmt.Errorf("responder %s: %w", r.ID, ErrInvalidCoordinates)
	}
	return nil
}

// Position returns the responder coordinates when both are known.
func (r Responder) Position() (lat, lon float64, ok bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, false
	}
	return *r.Latitude, *r.Longitude, true
}

// HasSkill reports whether the responder holds the exact skill label.
// Matching is case-sensitive.
func (r Responder) HasSkill(skill string) bool {
	for _, s := range r.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// HasAnySkill reports whether the responder holds at least one of skills.
func (r Responder) HasAnySkill(skills []string) bool {
	for _, s := range skills {
		if r.HasSkill(s) {
			return true
		}
	}
	return false
}

// BaselineTrust returns the stored trust score or DefaultTrustScore.
func (r Responder) BaselineTrust() float64 {
	if r.TrustScore == nil {
		return DefaultTrustScore
	}
	return *r.TrustScore
}

// SquadMember is a preferred responder proposed for a playbook with an
// explicit skill list.
type SquadMember struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Skills []string `json:"skills" yaml:"skills"`
}

// HasAnySkill reports whether the member holds at least one of skills.
func (m SquadMember) HasAnySkill(skills []string) bool {
	for _, want := range skills {
		for _, s := range m.Skills {
			if s == want {
				return true
			}
		}
	}
	return false
}
