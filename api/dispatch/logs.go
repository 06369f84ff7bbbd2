package dispatch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cryptonique0/cecd/api/httputil"
	"github.com/cryptonique0/cecd/core/dispatch/logging"
	"github.com/cryptonique0/cecd/core/model"
)

// NewLogHandler returns an HTTP handler exposing the decision log via
// GET /api/dispatch/logs. Supported filters: start and end (RFC3339),
// incident_id, responder_id and priority.
func NewLogHandler(store logging.LogStore) http.Handler {
	return httputil.Methods(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := parseLogQuery(r)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, err)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			httputil.Error(w, http.StatusInternalServerError, err)
			return
		}
		if records == nil {
			records = []logging.LogRecord{}
		}
		httputil.JSON(w, http.StatusOK, records)
	}), http.MethodGet)
}

func parseLogQuery(r *http.Request) (logging.LogQuery, error) {
	v := r.URL.Query()
	q := logging.LogQuery{
		IncidentID:  v.Get("incident_id"),
		ResponderID: v.Get("responder_id"),
	}
	for name, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
		s := v.Get(name)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = t
	}
	if p := v.Get("priority"); p != "" {
		switch prio := model.Priority(p); prio {
		case model.PriorityCritical, model.PriorityHigh, model.PriorityMedium:
			q.Priority = prio
		default:
			return q, fmt.Errorf("unknown priority %q", p)
		}
	}
	return q, nil
}
