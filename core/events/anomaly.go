package events

import "github.com/cryptonique0/cecd/core/model"

// AnomalyEvent carries one flagged incident report.
type AnomalyEvent struct {
	Record model.AnomalyRecord
}

// ShortageEvent carries a region forecast with at least one shortage.
type ShortageEvent struct {
	Forecast model.ShortageForecast
}
