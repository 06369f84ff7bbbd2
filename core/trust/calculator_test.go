package trust

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonique0/cecd/core/model"
)

var evalTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func calc() *Calculator {
	return NewCalculator(WithClock(func() time.Time { return evalTime }))
}

func TestDecay_HalfLife(t *testing.T) {
	for _, h := range []float64{72, 108, 720, 1440} {
		got := Decay(90, h, time.Duration(h*float64(time.Hour)))
		assert.InDelta(t, 45, got, 1e-9, "half-life %v", h)
	}
	assert.Equal(t, 90.0, Decay(90, 72, 0))
	assert.Equal(t, 90.0, Decay(90, 0, 1000*time.Hour))
	assert.Equal(t, 90.0, Decay(90, 72, -time.Hour))
	assert.InDelta(t, 22.5, Decay(90, 72, 144*time.Hour), 1e-9)
}

func TestProfile_BaselineFallback(t *testing.T) {
	p := calc().Profile(model.Responder{ID: "r"}, nil)
	assert.Equal(t, 80, p.Score)
	assert.Empty(t, p.Components)
	assert.Equal(t, evalTime, p.LastComputedAt)

	stored := 42.6
	p = calc().Profile(model.Responder{ID: "r", TrustScore: &stored}, nil)
	assert.Equal(t, 43, p.Score)

	zero := model.TrustComponent{Label: "unweighted", Value: 10, LastUpdated: evalTime}
	p = calc().Profile(model.Responder{ID: "r"}, []model.TrustComponent{zero})
	assert.Equal(t, 80, p.Score)
	require.Len(t, p.Components, 1)
}

func TestProfile_WeightedMean(t *testing.T) {
	comps := []model.TrustComponent{
		MissionCompletion("mission", 60, evalTime),
		OnChainAttestation("kyc", 100, evalTime, "0xabc"),
	}
	p := calc().Profile(model.Responder{ID: "r"}, comps)
	// (60*3 + 100*5) / 8 = 85
	assert.Equal(t, 85, p.Score)
	assert.Equal(t, "0xabc", p.Components[1].ProofReference)
}

func TestProfile_DecayedComponents(t *testing.T) {
	comps := []model.TrustComponent{
		MissionCompletion("old mission", 100, evalTime.Add(-72*time.Hour)),
		ZkSkillProof("medic proof", 100, evalTime.Add(-72*time.Hour), "zk:1"),
	}
	p := calc().Profile(model.Responder{ID: "r"}, comps)
	require.Len(t, p.Components, 2)
	assert.InDelta(t, 50, p.Components[0].DecayedValue, 1e-9)
	zk := 100 * math.Pow(0.5, 72.0/720)
	assert.InDelta(t, zk, p.Components[1].DecayedValue, 1e-9)
	want := int(math.Round((50*3 + zk*4) / 7))
	assert.Equal(t, want, p.Score)
	// Inputs are not mutated.
	assert.Zero(t, comps[0].DecayedValue)
}

func TestProfile_ScoreClamped(t *testing.T) {
	high := []model.TrustComponent{PeerReview("inflated", 400, evalTime)}
	assert.Equal(t, 100, calc().Profile(model.Responder{}, high).Score)
	low := []model.TrustComponent{PeerReview("negative", -50, evalTime)}
	assert.Equal(t, 0, calc().Profile(model.Responder{}, low).Score)
}

func TestSignalConstructors(t *testing.T) {
	tests := []struct {
		c        model.TrustComponent
		halfLife float64
		weight   float64
	}{
		{MissionCompletion("a", 1, evalTime), 72, 3},
		{PeerReview("b", 1, evalTime), 108, 2},
		{ZkSkillProof("c", 1, evalTime, "p"), 720, 4},
		{OnChainAttestation("d", 1, evalTime, "p"), 1440, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.halfLife, tt.c.HalfLifeHours, tt.c.Label)
		assert.Equal(t, tt.weight, tt.c.Weight, tt.c.Label)
	}
}

func TestFill(t *testing.T) {
	in := []model.TrustComponent{
		{Signal: model.TrustPeerReview, Value: 70},
		{Signal: model.TrustZkSkillProof, Weight: 9},
		{Signal: "Custom", Value: 1},
	}
	out := Fill(in)
	assert.Equal(t, 108.0, out[0].HalfLifeHours)
	assert.Equal(t, 2.0, out[0].Weight)
	assert.Equal(t, 9.0, out[1].Weight)
	assert.Zero(t, out[2].HalfLifeHours)
	assert.Zero(t, in[0].Weight)
}

func TestProfile_FillsSignalDefaults(t *testing.T) {
	comps := []model.TrustComponent{
		{Label: "attestation", Value: 100, Signal: model.TrustOnChainAttestation, LastUpdated: evalTime.Add(-1440 * time.Hour)},
		{Label: "manual", Value: 10, Signal: model.TrustMissionCompletion, Weight: 5, HalfLifeHours: 1, LastUpdated: evalTime},
	}
	p := calc().Profile(model.Responder{ID: "r"}, comps)
	require.Len(t, p.Components, 2)
	assert.Equal(t, 1440.0, p.Components[0].HalfLifeHours)
	assert.Equal(t, 5.0, p.Components[0].Weight)
	assert.InDelta(t, 50, p.Components[0].DecayedValue, 1e-9)
	assert.Equal(t, 1.0, p.Components[1].HalfLifeHours)
	// (50*5 + 10*5) / 10
	assert.Equal(t, 30, p.Score)
	assert.Zero(t, comps[0].Weight)
}
