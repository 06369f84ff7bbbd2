// Package insights exposes the playbook generator, logistics forecaster,
// readiness scorer and trust calculator over HTTP. Every route takes a JSON
// snapshot body and answers with the computed records.
package insights

import (
	"context"
	"errors"
	"net/http"

	"github.com/cryptonique0/cecd/api/httputil"
	"github.com/cryptonique0/cecd/core/model"
)

type PlaybookGenerator interface {
	Generate(inc model.Incident, pool []model.Responder, squad []model.SquadMember) model.PlaybookPlan
}

type Forecaster interface {
	ForecastShortages(incidents []model.Incident, responders []model.Responder) []model.ShortageForecast
	PreallocateResupplyRoutes(ctx context.Context, incidents []model.Incident) []model.ResupplyRoute
}

type Scorer interface {
	ReadinessByRegion(incidents []model.Incident, responders []model.Responder) []model.ReadinessRecord
	DetectAnomalies(incidents []model.Incident, responders []model.Responder) []model.AnomalyRecord
}

type TrustCalculator interface {
	Profile(r model.Responder, components []model.TrustComponent) model.TrustProfile
}

// Handlers groups the engine components served by this package.
type Handlers struct {
	Playbooks PlaybookGenerator
	Logistics Forecaster
	Readiness Scorer
	Trust     TrustCalculator
}

type batchRequest struct {
	Incidents  []model.Incident  `json:"incidents"`
	Responders []model.Responder `json:"responders"`
}

type playbookRequest struct {
	Incident   *model.Incident     `json:"incident"`
	Responders []model.Responder   `json:"responders"`
	Squad      []model.SquadMember `json:"squad"`
}

type trustRequest struct {
	Responder  *model.Responder       `json:"responder"`
	Components []model.TrustComponent `json:"components"`
}

// Register mounts every route on mux, wrapping each handler with wrap.
func (h Handlers) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("/api/playbooks", wrap(post(h.playbook)))
	mux.Handle("/api/logistics/shortages", wrap(post(h.shortages)))
	mux.Handle("/api/logistics/resupply", wrap(post(h.resupply)))
	mux.Handle("/api/readiness", wrap(post(h.readiness)))
	mux.Handle("/api/anomalies", wrap(post(h.anomalies)))
	mux.Handle("/api/trust", wrap(post(h.trust)))
}

func post(fn http.HandlerFunc) http.Handler { return httputil.Methods(fn, http.MethodPost) }

func (h Handlers) playbook(w http.ResponseWriter, r *http.Request) {
	var req playbookRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Incident == nil {
		httputil.Error(w, http.StatusBadRequest, errors.New("incident is required"))
		return
	}
	if err := req.Incident.Validate(); err != nil {
		httputil.Error(w, http.StatusUnprocessableEntity, err)
		return
	}
	httputil.JSON(w, http.StatusOK, h.Playbooks.Generate(*req.Incident, req.Responders, req.Squad))
}

func (h Handlers) shortages(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if decode(w, r, &req) {
		httputil.JSON(w, http.StatusOK, h.Logistics.ForecastShortages(req.Incidents, req.Responders))
	}
}

func (h Handlers) resupply(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if decode(w, r, &req) {
		httputil.JSON(w, http.StatusOK, h.Logistics.PreallocateResupplyRoutes(r.Context(), req.Incidents))
	}
}

func (h Handlers) readiness(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if decode(w, r, &req) {
		httputil.JSON(w, http.StatusOK, h.Readiness.ReadinessByRegion(req.Incidents, req.Responders))
	}
}

func (h Handlers) anomalies(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if decode(w, r, &req) {
		httputil.JSON(w, http.StatusOK, h.Readiness.DetectAnomalies(req.Incidents, req.Responders))
	}
}

func (h Handlers) trust(w http.ResponseWriter, r *http.Request) {
	var req trustRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Responder == nil {
		httputil.Error(w, http.StatusBadRequest, errors.New("responder is required"))
		return
	}
	httputil.JSON(w, http.StatusOK, h.Trust.Profile(*req.Responder, req.Components))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.Decode(w, r, v); err != nil {
		httputil.Error(w, http.StatusBadRequest, err)
		return false
	}
	return true
}
