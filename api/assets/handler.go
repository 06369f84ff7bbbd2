// Package assets exposes the asset registry over HTTP.
package assets

import (
	"errors"
	"net/http"

	"github.com/cryptonique0/cecd/api/httputil"
	"github.com/cryptonique0/cecd/core/assetstore"
	"github.com/cryptonique0/cecd/core/model"
)

type assignRequest struct {
	AssetID    string `json:"assetId"`
	IncidentID string `json:"incidentId"`
}

type maintenanceRequest struct {
	AssetID string `json:"assetId"`
	On      bool   `json:"on"`
}

type fuelRequest struct {
	AssetID string   `json:"assetId"`
	Percent *float64 `json:"percent"`
}

// Register mounts the asset routes under /api/assets on mux, wrapping each
// handler with wrap.
func Register(mux *http.ServeMux, store assetstore.Store, wrap func(http.Handler) http.Handler) {
	mux.Handle("/api/assets", wrap(NewHandler(store)))
	mux.Handle("/api/assets/assign", wrap(NewAssignHandler(store)))
	mux.Handle("/api/assets/release", wrap(NewReleaseHandler(store)))
	mux.Handle("/api/assets/maintenance", wrap(NewMaintenanceHandler(store)))
	mux.Handle("/api/assets/fuel", wrap(NewFuelHandler(store)))
}

// NewHandler serves GET /api/assets (filters: region, type, status) and
// PUT /api/assets with one asset to upsert.
func NewHandler(store assetstore.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			httputil.JSON(w, http.StatusOK, store.List(assetstore.Filter{
				Region: q.Get("region"),
				Type:   model.AssetType(q.Get("type")),
				Status: model.AssetStatus(q.Get("status")),
			}))
		case http.MethodPut:
			var a model.Asset
			if err := httputil.Decode(w, r, &a); err != nil {
				httputil.Error(w, http.StatusBadRequest, err)
				return
			}
			out, err := store.Upsert(a)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, out)
		default:
			w.Header().Set("Allow", "GET, PUT")
			httputil.Error(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		}
	})
}

// NewAssignHandler serves POST /api/assets/assign. Assigning an asset that
// is not Available answers 409.
func NewAssignHandler(store assetstore.Store) http.Handler {
	return httputil.Methods(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req assignRequest
		if err := httputil.Decode(w, r, &req); err != nil {
			httputil.Error(w, http.StatusBadRequest, err)
			return
		}
		respond(w)(store.Assign(req.AssetID, req.IncidentID))
	}), http.MethodPost)
}

// NewReleaseHandler serves POST /api/assets/release.
func NewReleaseHandler(store assetstore.Store) http.Handler {
	return httputil.Methods(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req assignRequest
		if err := httputil.Decode(w, r, &req); err != nil {
			httputil.Error(w, http.StatusBadRequest, err)
			return
		}
		respond(w)(store.Release(req.AssetID))
	}), http.MethodPost)
}

// NewMaintenanceHandler serves POST /api/assets/maintenance.
func NewMaintenanceHandler(store assetstore.Store) http.Handler {
	return httputil.Methods(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req maintenanceRequest
		if err := httputil.Decode(w, r, &req); err != nil {
			httputil.Error(w, http.StatusBadRequest, err)
			return
		}
		respond(w)(store.SetMaintenance(req.AssetID, req.On))
	}), http.MethodPost)
}

// NewFuelHandler serves POST /api/assets/fuel.
func NewFuelHandler(store assetstore.Store) http.Handler {
	return httputil.Methods(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req fuelRequest
		if err := httputil.Decode(w, r, &req); err != nil {
			httputil.Error(w, http.StatusBadRequest, err)
			return
		}
		if req.Percent == nil {
			httputil.Error(w, http.StatusBadRequest, errors.New("percent is required"))
			return
		}
		respond(w)(store.UpdateFuel(req.AssetID, *req.Percent))
	}), http.MethodPost)
}

func respond(w http.ResponseWriter) func(model.Asset, error) {
	return func(a model.Asset, err error) {
		if err != nil {
			writeStoreError(w, err)
			return
		}
		httputil.JSON(w, http.StatusOK, a)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, assetstore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, assetstore.ErrUnavailable), errors.Is(err, assetstore.ErrNotAssigned):
		status = http.StatusConflict
	}
	httputil.Error(w, status, err)
}
