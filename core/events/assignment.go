package events

import "time"

// AssignmentEvent is published when an asset changes hands. Released is
// true when the asset went back to the pool.
type AssignmentEvent struct {
	AssetID    string
	IncidentID string
	Released   bool
	At         time.Time
}
