// Package events defines the engine events emitted on the event bus.
//
// Available event types:
//   - SuggestionEvent: a batch of dispatch suggestions was produced
//   - AssignmentEvent: an asset was assigned to or released from an incident
//   - AnomalyEvent: an incident report was flagged as suspicious
//   - ShortageEvent: a region forecast reported at least one shortage
package events
