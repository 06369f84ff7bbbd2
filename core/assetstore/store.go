// Package assetstore keeps the live asset registry. Status transitions are
// atomic per store, so two dispatch operations can never both assign the
// same asset.
package assetstore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cryptonique0/cecd/core/events"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

var (
	// ErrNotFound is returned for unknown asset ids.
	ErrNotFound = errors.New("asset not found")
	// ErrUnavailable is returned when assigning an asset that is not Available.
	ErrUnavailable = errors.New("asset not available")
	// ErrNotAssigned is returned when releasing an asset that is not Assigned.
	ErrNotAssigned = errors.New("asset not assigned")
)

// Filter selects assets in List. Empty fields match everything.
type Filter struct {
	Region string
	Type   model.AssetType
	Status model.AssetStatus
}

func (f Filter) match(a model.Asset) bool {
	if f.Region != "" && a.Location != f.Region {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return true
}

// Store is the asset registry contract.
type Store interface {
	Upsert(a model.Asset) (model.Asset, error)
	Get(id string) (model.Asset, error)
	List(f Filter) []model.Asset
	Assign(assetID, incidentID string) (model.Asset, error)
	Release(assetID string) (model.Asset, error)
	SetMaintenance(assetID string, on bool) (model.Asset, error)
	UpdateFuel(assetID string, percent float64) (model.Asset, error)
}

// MemoryStore keeps assets in an insertion-ordered arena indexed by id.
// Returned assets are copies; callers never share memory with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	assets []model.Asset
	index  map[string]int
	bus    eventbus.EventBus
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store. A non-nil bus receives an
// AssignmentEvent for every assign and release.
func NewMemoryStore(bus eventbus.EventBus) *MemoryStore {
	return &MemoryStore{index: map[string]int{}, bus: bus}
}

// Upsert validates, normalises and stores a. An existing asset with the same
// id is replaced in place.
func (s *MemoryStore) Upsert(a model.Asset) (model.Asset, error) {
	if err := a.Validate(); err != nil {
		return model.Asset{}, err
	}
	a = clone(a).Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[a.ID]; ok {
		s.assets[i] = a
	} else {
		s.index[a.ID] = len(s.assets)
		s.assets = append(s.assets, a)
	}
	return clone(a), nil
}

// Load upserts every asset, skipping invalid ones. It returns the errors of
// the skipped records.
func (s *MemoryStore) Load(assets []model.Asset) []error {
	var errs []error
	for _, a := range assets {
		if _, err := s.Upsert(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (s *MemoryStore) Get(id string) (model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Asset{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return clone(s.assets[i]), nil
}

// List returns matching assets in insertion order.
func (s *MemoryStore) List(f Filter) []model.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		if f.match(a) {
			res = append(res, clone(a))
		}
	}
	return res
}

// Assign moves an Available asset to Assigned on incidentID.
func (s *MemoryStore) Assign(assetID, incidentID string) (model.Asset, error) {
	if incidentID == "" {
		return model.Asset{}, fmt.Errorf("assign %s: %w", assetID, model.ErrMissingID)
	}
	a, err := s.update(assetID, func(a *model.Asset) error {
		if a.Status != model.AssetAvailable {
			return fmt.Errorf("%s is %s: %w", a.ID, a.Status, ErrUnavailable)
		}
		a.Status = model.AssetAssigned
		a.AssignedIncidentID = incidentID
		return nil
	})
	if err == nil {
		s.publish(events.AssignmentEvent{AssetID: assetID, IncidentID: incidentID, At: time.Now()})
	}
	return a, err
}

// Release returns an Assigned asset to the pool. It comes back LowFuel when
// its fuel is under the threshold.
func (s *MemoryStore) Release(assetID string) (model.Asset, error) {
	var incidentID string
	a, err := s.update(assetID, func(a *model.Asset) error {
		if a.Status != model.AssetAssigned {
			return fmt.Errorf("%s is %s: %w", a.ID, a.Status, ErrNotAssigned)
		}
		incidentID = a.AssignedIncidentID
		a.Status = model.AssetAvailable
		return nil
	})
	if err == nil {
		s.publish(events.AssignmentEvent{AssetID: assetID, IncidentID: incidentID, Released: true, At: time.Now()})
	}
	return a, err
}

// SetMaintenance takes an idle asset out of service, or puts it back.
// Assigned assets must be released first.
func (s *MemoryStore) SetMaintenance(assetID string, on bool) (model.Asset, error) {
	return s.update(assetID, func(a *model.Asset) error {
		switch {
		case a.Status == model.AssetAssigned:
			return fmt.Errorf("%s is assigned to %s: %w", a.ID, a.AssignedIncidentID, ErrUnavailable)
		case on:
			a.Status = model.AssetMaintenance
		case a.Status == model.AssetMaintenance:
			a.Status = model.AssetAvailable
		}
		return nil
	})
}

// UpdateFuel records a new fuel reading.
func (s *MemoryStore) UpdateFuel(assetID string, percent float64) (model.Asset, error) {
	if percent < 0 || percent > 100 {
		return model.Asset{}, fmt.Errorf("%s: %w", assetID, model.ErrInvalidFuel)
	}
	return s.update(assetID, func(a *model.Asset) error {
		a.FuelPercent = &percent
		return nil
	})
}

// update applies fn under the write lock and normalises the result. fn
// errors leave the asset untouched.
func (s *MemoryStore) update(id string, fn func(*model.Asset) error) (model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.Asset{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	a := clone(s.assets[i])
	if err := fn(&a); err != nil {
		return model.Asset{}, err
	}
	s.assets[i] = a.Normalize()
	return clone(s.assets[i]), nil
}

func (s *MemoryStore) publish(ev events.AssignmentEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func clone(a model.Asset) model.Asset {
	if a.Latitude != nil {
		v := *a.Latitude
		a.Latitude = &v
	}
	if a.Longitude != nil {
		v := *a.Longitude
		a.Longitude = &v
	}
	if a.FuelPercent != nil {
		v := *a.FuelPercent
		a.FuelPercent = &v
	}
	if a.Stock != nil {
		v := *a.Stock
		a.Stock = &v
	}
	if a.CapacityLiters != nil {
		v := *a.CapacityLiters
		a.CapacityLiters = &v
	}
	return a
}
