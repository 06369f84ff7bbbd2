package model

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an incident. The set is closed.
type Category string

const (
	CategoryMedical      Category = "Medical"
	CategoryFire         Category = "Fire"
	CategoryFlood        Category = "Flood"
	CategoryStorm        Category = "Storm"
	CategoryEarthquake   Category = "Earthquake"
	CategorySecurity     Category = "Security"
	CategoryTheft        Category = "Theft"
	CategoryPublicHealth Category = "PublicHealth"
	CategoryHazard       Category = "Hazard"
	CategoryKidnapping   Category = "Kidnapping"
	CategoryOther        Category = "Other"
)

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryMedical, CategoryFire, CategoryFlood, CategoryStorm, CategoryEarthquake,
		CategorySecurity, CategoryTheft, CategoryPublicHealth, CategoryHazard, CategoryKidnapping, CategoryOther:
		return true
	}
	return false
}

// Severity is ordered: Low < Medium < High < Critical.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a label into a Severity, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	}
	return SeverityLow, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// IncidentStatus is a forward-only lifecycle:
// Reported -> Acknowledged -> InProgress -> Resolved -> Closed.
type IncidentStatus string

const (
	StatusReported     IncidentStatus = "Reported"
	StatusAcknowledged IncidentStatus = "Acknowledged"
	StatusInProgress   IncidentStatus = "InProgress"
	StatusResolved     IncidentStatus = "Resolved"
	StatusClosed       IncidentStatus = "Closed"
)

func (s IncidentStatus) rank() int {
	switch s {
	case StatusReported, "":
		return 0
	case StatusAcknowledged:
		return 1
	case StatusInProgress:
		return 2
	case StatusResolved:
		return 3
	case StatusClosed:
		return 4
	}
	return -1
}

// CanTransition reports whether moving from s to next respects the forward-only
// lifecycle. Only single steps forward are allowed.
func (s IncidentStatus) CanTransition(next IncidentStatus) bool {
	from, to := s.rank(), next.rank()
	if from < 0 || to < 0 {
		return false
	}
	return to == from+1
}

// Terminal reports whether the incident is resolved or closed.
func (s IncidentStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// Incident is an emergency reported through intake. Incidents are never
// deleted; closed incidents stay for audit.
type Incident struct {
	ID                   string         `json:"id" yaml:"id"`
	Title                string         `json:"title" yaml:"title"`
	Description          string         `json:"description" yaml:"description"`
	TranslatedText       string         `json:"translatedText,omitempty" yaml:"translated_text,omitempty"`
	Category             Category       `json:"category" yaml:"category"`
	Severity             Severity       `json:"severity" yaml:"severity"`
	Status               IncidentStatus `json:"status" yaml:"status"`
	LocationName         string         `json:"locationName" yaml:"location_name"`
	Latitude             *float64       `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude            *float64       `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	CreatedAt            time.Time      `json:"createdAt" yaml:"created_at"`
	ReportedBy           string         `json:"reportedBy,omitempty" yaml:"reported_by,omitempty"`
	AssignedResponderIDs []string       `json:"assignedResponderIds,omitempty" yaml:"assigned_responder_ids,omitempty"`
	Confidence           *float64       `json:"confidence,omitempty" yaml:"confidence,omitempty"` // classifier confidence in [0,1]
	Private              bool           `json:"private,omitempty" yaml:"private,omitempty"`
}

// Validate checks the identifiers and ranges required by the engine.
func (i Incident) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("incident: %w", ErrMissingID)
	}
	if (i.Latitude == nil) != (i.Longitude == nil) {
		return fmt.Errorf("incident %s: %w", i.ID, ErrInvalidCoordinates)
	}
	if i.Latitude != nil && !validLatLon(*i.Latitude, *i.Longitude) {
		return fmt.Errorf("incident %s: %w", i.ID, ErrInvalidCoordinates)
	}
	if i.Confidence != nil && (*i.Confidence < 0 || *i.Confidence > 1) {
		return fmt.Errorf("incident %s: %w", i.ID, ErrInvalidConfidence)
	}
	if i.Category != "" && !i.Category.Valid() {
		return fmt.Errorf("incident %s: unknown category %q", i.ID, i.Category)
	}
	return nil
}

// Active reports whether the incident still takes part in dispatch.
func (i Incident) Active() bool { return !i.Status.Terminal() }

// Position returns the incident coordinates when both are known.
func (i Incident) Position() (lat, lon float64, ok bool) {
	if i.Latitude == nil || i.Longitude == nil {
		return 0, 0, false
	}
	return *i.Latitude, *i.Longitude, true
}

// Classification is the result produced by the external report classifier.
// The engine reads Category, Severity and Confidence only; Translation feeds
// the anomaly keyword scan.
type Classification struct {
	Category         Category `json:"category"`
	Severity         Severity `json:"severity"`
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning,omitempty"`
	Guidance         []string `json:"guidance,omitempty"`
	Translation      string   `json:"translation,omitempty"`
	DetectedLanguage string   `json:"detectedLanguage,omitempty"`
}

// ApplyClassification copies the classifier output onto the incident.
func (i *Incident) ApplyClassification(c Classification) {
	i.Category = c.Category
	i.Severity = c.Severity
	conf := c.Confidence
	i.Confidence = &conf
	if c.Translation != "" {
		i.TranslatedText = c.Translation
	}
}

func validLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
