package model

// ReadinessRecord summarises operational readiness of one region.
type ReadinessRecord struct {
	Region             string   `json:"region"`
	AvgResponseMinutes float64  `json:"avgResponseMinutes"`
	ClosureRate        float64  `json:"closureRate"`
	SkillGaps          []string `json:"skillGaps"`
	Score              float64  `json:"score"`
}

// AnomalyRecord flags a suspicious incident report.
type AnomalyRecord struct {
	IncidentID     string  `json:"incidentId"`
	Region         string  `json:"region"`
	SuspicionScore float64 `json:"suspicionScore"`
	Reason         string  `json:"reason"`
}

// ShortageForecast lists the shortages detected in a region.
type ShortageForecast struct {
	Region    string   `json:"region"`
	Shortages []string `json:"shortages"`
}

// ResupplyRoute proposes moving a low-fuel asset towards the nearest incident.
type ResupplyRoute struct {
	AssetID      string  `json:"assetId"`
	AssetName    string  `json:"assetName"`
	From         string  `json:"from"`
	ToIncidentID string  `json:"toIncidentId"`
	DistanceKm   float64 `json:"distanceKm"`
	Note         string  `json:"note"`
}
