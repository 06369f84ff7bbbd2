package logging

import (
	"context"
	"time"

	"github.com/cryptonique0/cecd/core/model"
)

// LogRecord captures one matcher run.
type LogRecord struct {
	Timestamp   time.Time                  `json:"timestamp"`
	IncidentIDs []string                   `json:"incident_ids"`
	Responders  int                        `json:"responders"`
	Skipped     int                        `json:"skipped"`
	Suggestions []model.DispatchSuggestion `json:"suggestions"`
}

// LogQuery defines filters for retrieving records. Zero values match
// everything.
type LogQuery struct {
	Start       time.Time
	End         time.Time
	IncidentID  string
	ResponderID string
	Priority    model.Priority
}

// Matches reports whether r satisfies every filter of q.
func (q LogQuery) Matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.IncidentID != "" && !containsIncident(r, q.IncidentID) {
		return false
	}
	if q.ResponderID == "" && q.Priority == "" {
		return true
	}
	for _, s := range r.Suggestions {
		if q.ResponderID != "" && s.ResponderID != q.ResponderID {
			continue
		}
		if q.Priority != "" && s.Priority != q.Priority {
			continue
		}
		return true
	}
	return false
}

func containsIncident(r LogRecord, id string) bool {
	for _, i := range r.IncidentIDs {
		if i == id {
			return true
		}
	}
	for _, s := range r.Suggestions {
		if s.IncidentID == id {
			return true
		}
	}
	return false
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
