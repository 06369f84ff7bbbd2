package app

import (
	"context"

	"github.com/cryptonique0/cecd/core/events"
)

// watchEvents logs every engine event until ctx is canceled or the bus is
// closed. The subscription is made before it returns.
func (s *Service) watchEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	go func() {
		defer s.bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				s.logEvent(ev)
			}
		}
	}()
}

func (s *Service) logEvent(ev any) {
	switch e := ev.(type) {
	case events.SuggestionEvent:
		s.log.Infow("suggestions", map[string]any{"count": len(e.Suggestions), "skipped": e.Skipped})
	case events.AssignmentEvent:
		if e.Released {
			s.log.Infow("asset released", map[string]any{"asset_id": e.AssetID, "incident_id": e.IncidentID})
			return
		}
		s.log.Infow("asset assigned", map[string]any{"asset_id": e.AssetID, "incident_id": e.IncidentID})
	case events.AnomalyEvent:
		s.log.Warnf("anomaly %s in %s (%.2f): %s", e.Record.IncidentID, e.Record.Region, e.Record.SuspicionScore, e.Record.Reason)
	case events.ShortageEvent:
		s.log.Warnf("shortage in %s: %v", e.Forecast.Region, e.Forecast.Shortages)
	default:
		s.log.Debugf("unhandled event %T", ev)
	}
}
