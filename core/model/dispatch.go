package model

// Priority of a dispatch suggestion. Lower rank means more urgent.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
)

// Rank orders priorities: Critical < High < Medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	default:
		return 2
	}
}

// PriorityFor maps an incident severity to a dispatch priority. Low and
// Medium both map to Medium.
func PriorityFor(s Severity) Priority {
	switch s {
	case SeverityCritical:
		return PriorityCritical
	case SeverityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// RoutePlan is the route brief for one responder to incident pair.
type RoutePlan struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	DistanceKm  float64  `json:"distanceKm"`
	ETAMinutes  int      `json:"etaMinutes"`
	Steps       []string `json:"steps"`
	RiskFactors []string `json:"riskFactors"`
	Advisory    string   `json:"advisory"`
}

// DispatchSuggestion proposes the best responder for an active incident.
type DispatchSuggestion struct {
	IncidentID      string          `json:"incidentId"`
	IncidentTitle   string          `json:"incidentTitle"`
	Location        string          `json:"location"`
	ResponderID     string          `json:"responderId"`
	ResponderName   string          `json:"responderName"`
	ResponderStatus ResponderStatus `json:"responderStatus"`
	DistanceKm      float64         `json:"distanceKm"`
	ETAMinutes      int             `json:"etaMinutes"`
	Priority        Priority        `json:"priority"`
	Route           RoutePlan       `json:"route"`
}
