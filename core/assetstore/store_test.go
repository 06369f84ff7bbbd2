package assetstore

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonique0/cecd/core/events"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

func fuel(v float64) *float64 { return &v }

func TestMemoryStore_UpsertNormalises(t *testing.T) {
	s := NewMemoryStore(nil)
	a, err := s.Upsert(model.Asset{ID: "t1", Type: model.AssetFuelTruck, FuelPercent: fuel(10)})
	require.NoError(t, err)
	assert.Equal(t, model.AssetLowFuel, a.Status)

	a, err = s.Upsert(model.Asset{ID: "v1", Status: model.AssetAvailable, AssignedIncidentID: "inc"})
	require.NoError(t, err)
	assert.Empty(t, a.AssignedIncidentID)

	a, err = s.Upsert(model.Asset{ID: "v2", Status: model.AssetAssigned})
	require.NoError(t, err)
	assert.Equal(t, model.AssetAvailable, a.Status)

	_, err = s.Upsert(model.Asset{ID: "bad", FuelPercent: fuel(120)})
	assert.ErrorIs(t, err, model.ErrInvalidFuel)
	_, err = s.Upsert(model.Asset{})
	assert.ErrorIs(t, err, model.ErrMissingID)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore(nil)
	f := fuel(80)
	_, err := s.Upsert(model.Asset{ID: "g1", FuelPercent: f})
	require.NoError(t, err)
	*f = 5
	got, err := s.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, *got.FuelPercent)
	*got.FuelPercent = 1
	again, _ := s.Get("g1")
	assert.Equal(t, 80.0, *again.FuelPercent)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListFilterAndOrder(t *testing.T) {
	s := NewMemoryStore(nil)
	errs := s.Load([]model.Asset{
		{ID: "b", Type: model.AssetVehicle, Location: "North"},
		{ID: "a", Type: model.AssetMedicalKit, Location: "North"},
		{ID: "c", Type: model.AssetVehicle, Location: "South"},
		{ID: ""},
	})
	require.Len(t, errs, 1)

	all := s.List(Filter{})
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	north := s.List(Filter{Region: "North", Type: model.AssetVehicle})
	require.Len(t, north, 1)
	assert.Equal(t, "b", north[0].ID)
}

func TestMemoryStore_AssignRelease(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	s := NewMemoryStore(bus)
	_, err := s.Upsert(model.Asset{ID: "v1", FuelPercent: fuel(60)})
	require.NoError(t, err)

	a, err := s.Assign("v1", "inc-1")
	require.NoError(t, err)
	assert.Equal(t, model.AssetAssigned, a.Status)
	assert.Equal(t, "inc-1", a.AssignedIncidentID)

	_, err = s.Assign("v1", "inc-2")
	assert.ErrorIs(t, err, ErrUnavailable)

	// Fuel drops while on mission: the asset stays Assigned.
	a, err = s.UpdateFuel("v1", 12)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAssigned, a.Status)

	a, err = s.Release("v1")
	require.NoError(t, err)
	assert.Equal(t, model.AssetLowFuel, a.Status)
	assert.Empty(t, a.AssignedIncidentID)

	_, err = s.Release("v1")
	assert.ErrorIs(t, err, ErrNotAssigned)
	_, err = s.Assign("v1", "inc-3")
	assert.ErrorIs(t, err, ErrUnavailable)

	a, err = s.UpdateFuel("v1", 90)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAvailable, a.Status)

	var got []events.AssignmentEvent
	for len(got) < 2 {
		select {
		case ev := <-sub:
			got = append(got, ev.(events.AssignmentEvent))
		case <-time.After(time.Second):
			t.Fatalf("expected 2 events, got %d", len(got))
		}
	}
	assert.False(t, got[0].Released)
	assert.True(t, got[1].Released)
	assert.Equal(t, "inc-1", got[1].IncidentID)
}

func TestMemoryStore_Maintenance(t *testing.T) {
	s := NewMemoryStore(nil)
	_, _ = s.Upsert(model.Asset{ID: "p1", Type: model.AssetWaterPump})
	a, err := s.SetMaintenance("p1", true)
	require.NoError(t, err)
	assert.Equal(t, model.AssetMaintenance, a.Status)
	_, err = s.Assign("p1", "inc")
	assert.ErrorIs(t, err, ErrUnavailable)
	a, err = s.SetMaintenance("p1", false)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAvailable, a.Status)

	_, _ = s.Assign("p1", "inc")
	_, err = s.SetMaintenance("p1", true)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = s.SetMaintenance("nope", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ConcurrentAssignNeverDoubleBooks(t *testing.T) {
	s := NewMemoryStore(nil)
	for i := 0; i < 5; i++ {
		_, err := s.Upsert(model.Asset{ID: fmt.Sprintf("v%d", i)})
		require.NoError(t, err)
	}
	var wins atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < 32; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				_, err := s.Assign(fmt.Sprintf("v%d", i), fmt.Sprintf("inc-%d", w))
				switch {
				case err == nil:
					wins.Add(1)
				case !errors.Is(err, ErrUnavailable):
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, int64(5), wins.Load())
	for _, a := range s.List(Filter{}) {
		assert.Equal(t, model.AssetAssigned, a.Status)
		assert.NotEmpty(t, a.AssignedIncidentID)
	}
}
