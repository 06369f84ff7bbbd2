package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestIncidentValidate(t *testing.T) {
	tests := []struct {
		name string
		inc  Incident
		err  error
	}{
		{"ok", Incident{ID: "i1", Latitude: f64(10), Longitude: f64(20)}, nil},
		{"no position", Incident{ID: "i1"}, nil},
		{"blank id", Incident{ID: "  "}, ErrMissingID},
		{"half coordinates", Incident{ID: "i1", Latitude: f64(1)}, ErrInvalidCoordinates},
		{"latitude out of range", Incident{ID: "i1", Latitude: f64(91), Longitude: f64(0)}, ErrInvalidCoordinates},
		{"confidence above one", Incident{ID: "i1", Confidence: f64(1.2)}, ErrInvalidConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.inc.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Error(t, Incident{ID: "i1", Category: "Volcano"}.Validate())
}

func TestResponderAndAssetValidate(t *testing.T) {
	assert.ErrorIs(t, Responder{}.Validate(), ErrMissingID)
	assert.ErrorIs(t, Responder{ID: "r", Longitude: f64(0)}.Validate(), ErrInvalidCoordinates)
	assert.NoError(t, Responder{ID: "r", Latitude: f64(0), Longitude: f64(180)}.Validate())

	assert.ErrorIs(t, Asset{}.Validate(), ErrMissingID)
	assert.ErrorIs(t, Asset{ID: "a", FuelPercent: f64(101)}.Validate(), ErrInvalidFuel)
	assert.ErrorIs(t, Asset{ID: "a", Latitude: f64(0), Longitude: f64(-181)}.Validate(), ErrInvalidCoordinates)
}

func TestSplitValid(t *testing.T) {
	valid, errs := SplitValid([]Incident{{ID: "a"}, {}, {ID: "b"}})
	require.Len(t, valid, 2)
	assert.Equal(t, "a", valid[0].ID)
	assert.Equal(t, "b", valid[1].ID)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrMissingID))
}

func TestIncidentStatusTransitions(t *testing.T) {
	assert.True(t, StatusReported.CanTransition(StatusAcknowledged))
	assert.True(t, IncidentStatus("").CanTransition(StatusAcknowledged))
	assert.True(t, StatusResolved.CanTransition(StatusClosed))
	assert.False(t, StatusReported.CanTransition(StatusInProgress))
	assert.False(t, StatusClosed.CanTransition(StatusReported))
	assert.False(t, StatusInProgress.CanTransition(StatusInProgress))
	assert.False(t, IncidentStatus("Lost").CanTransition(StatusClosed))

	assert.True(t, Incident{Status: StatusInProgress}.Active())
	assert.False(t, Incident{Status: StatusResolved}.Active())
	assert.False(t, Incident{Status: StatusClosed}.Active())
}

func TestSeverityText(t *testing.T) {
	for _, label := range []string{"critical", "CRITICAL", " Critical "} {
		s, err := ParseSeverity(label)
		require.NoError(t, err)
		assert.Equal(t, SeverityCritical, s)
	}
	_, err := ParseSeverity("urgent")
	assert.Error(t, err)

	var inc Incident
	require.NoError(t, json.Unmarshal([]byte(`{"id":"i","severity":"High"}`), &inc))
	assert.Equal(t, SeverityHigh, inc.Severity)
	out, err := json.Marshal(inc.Severity)
	require.NoError(t, err)
	assert.Equal(t, `"High"`, string(out))
	assert.Error(t, json.Unmarshal([]byte(`{"severity":"Urgent"}`), &inc))
}

func TestPriority(t *testing.T) {
	assert.Equal(t, PriorityCritical, PriorityFor(SeverityCritical))
	assert.Equal(t, PriorityHigh, PriorityFor(SeverityHigh))
	assert.Equal(t, PriorityMedium, PriorityFor(SeverityMedium))
	assert.Equal(t, PriorityMedium, PriorityFor(SeverityLow))
	assert.Less(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
}

func TestApplyClassification(t *testing.T) {
	inc := Incident{ID: "i", Description: "agua en la calle"}
	inc.ApplyClassification(Classification{
		Category:    CategoryFlood,
		Severity:    SeverityHigh,
		Confidence:  0.35,
		Reasoning:   "water on road",
		Translation: "water in the street",
	})
	assert.Equal(t, CategoryFlood, inc.Category)
	assert.Equal(t, SeverityHigh, inc.Severity)
	require.NotNil(t, inc.Confidence)
	assert.Equal(t, 0.35, *inc.Confidence)
	assert.Equal(t, "water in the street", inc.TranslatedText)

	inc.ApplyClassification(Classification{Category: CategoryFlood, Confidence: 0.9})
	assert.Equal(t, "water in the street", inc.TranslatedText)
}

func TestAssetNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     Asset
		status AssetStatus
		ref    string
	}{
		{"empty status", Asset{ID: "a"}, AssetAvailable, ""},
		{"low fuel idle", Asset{ID: "a", Status: AssetAvailable, FuelPercent: f64(10)}, AssetLowFuel, ""},
		{"low fuel assigned keeps status", Asset{ID: "a", Status: AssetAssigned, AssignedIncidentID: "i", FuelPercent: f64(10)}, AssetAssigned, "i"},
		{"low fuel maintenance keeps status", Asset{ID: "a", Status: AssetMaintenance, FuelPercent: f64(10)}, AssetMaintenance, ""},
		{"refuelled", Asset{ID: "a", Status: AssetLowFuel, FuelPercent: f64(25)}, AssetAvailable, ""},
		{"assigned without incident", Asset{ID: "a", Status: AssetAssigned}, AssetAvailable, ""},
		{"stale incident reference", Asset{ID: "a", Status: AssetMaintenance, AssignedIncidentID: "i"}, AssetMaintenance, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.ref, got.AssignedIncidentID)
		})
	}
}

func TestResponderSkillsAndTrust(t *testing.T) {
	r := Responder{ID: "r", Skills: []string{"Medic", "Driver"}}
	assert.True(t, r.HasSkill("Medic"))
	assert.False(t, r.HasSkill("medic"))
	assert.True(t, r.HasAnySkill([]string{"Pilot", "Driver"}))
	assert.False(t, r.HasAnySkill(nil))
	assert.Equal(t, DefaultTrustScore, r.BaselineTrust())
	r.TrustScore = f64(42)
	assert.Equal(t, 42.0, r.BaselineTrust())
}
