// Package dispatch exposes the matcher, route planner and decision log over
// HTTP.
package dispatch

import (
	"context"
	"errors"
	"net/http"

	"github.com/cryptonique0/cecd/api/httputil"
	"github.com/cryptonique0/cecd/core/model"
)

// Suggester builds suggestions and route briefs.
type Suggester interface {
	Suggest(ctx context.Context, incidents []model.Incident, responders []model.Responder) []model.DispatchSuggestion
	Route(r model.Responder, inc model.Incident) model.RoutePlan
}

type suggestRequest struct {
	Incidents  []model.Incident  `json:"incidents"`
	Responders []model.Responder `json:"responders"`
}

type routeRequest struct {
	Responder *model.Responder `json:"responder"`
	Incident  *model.Incident  `json:"incident"`
}

// NewSuggestionsHandler serves POST /api/dispatch/suggestions.
func NewSuggestionsHandler(s Suggester) http.Handler {
	return httputil.Methods(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req suggestRequest
		if err := httputil.Decode(w, r, &req); err != nil {
			httputil.Error(w, http.StatusBadRequest, err)
			return
		}
		out := s.Suggest(r.Context(), req.Incidents, req.Responders)
		if out == nil {
			out = []model.DispatchSuggestion{}
		}
		httputil.JSON(w, http.StatusOK, out)
	}), http.MethodPost)
}

// NewRouteHandler serves POST /api/dispatch/route.
func NewRouteHandler(s Suggester) http.Handler {
	return httputil.Methods(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req routeRequest
		if err := httputil.Decode(w, r, &req); err != nil {
			httputil.Error(w, http.StatusBadRequest, err)
			return
		}
		if req.Responder == nil || req.Incident == nil {
			httputil.Error(w, http.StatusBadRequest, errors.New("responder and incident are required"))
			return
		}
		if err := errors.Join(req.Responder.Validate(), req.Incident.Validate()); err != nil {
			httputil.Error(w, http.StatusUnprocessableEntity, err)
			return
		}
		httputil.JSON(w, http.StatusOK, s.Route(*req.Responder, *req.Incident))
	}), http.MethodPost)
}
