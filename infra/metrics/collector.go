package metrics

import (
	"context"

	"github.com/cryptonique0/cecd/core/events"
	coremetrics "github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

// StartEventCollector subscribes to the bus and records asset assignment
// events on sinks implementing AssignmentRecorder. The asset store holds no
// sink of its own; the other components record their results directly. The
// collector stops when ctx is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.AssignmentRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.AssignmentEvent); ok {
					_ = rec.RecordAssignment(e.At, e.AssetID, e.IncidentID, e.Released)
				}
			}
		}
	}()
}
