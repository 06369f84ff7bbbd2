package events

import (
	"time"

	"github.com/cryptonique0/cecd/core/model"
)

// SuggestionEvent is published after each matcher run.
type SuggestionEvent struct {
	Suggestions []model.DispatchSuggestion
	Skipped     int
	At          time.Time
}
