package trust

import (
	"time"

	"github.com/cryptonique0/cecd/core/model"
)

// Defaults of one signal type.
type Defaults struct {
	HalfLifeHours float64
	Weight        float64
}

// SignalDefaults lists the half-life and weight of every signal type. Proofs
// and attestations outlive single mission results.
var SignalDefaults = map[model.TrustSignal]Defaults{
	model.TrustMissionCompletion:  {HalfLifeHours: 72, Weight: 3},
	model.TrustPeerReview:         {HalfLifeHours: 108, Weight: 2},
	model.TrustZkSkillProof:       {HalfLifeHours: 720, Weight: 4},
	model.TrustOnChainAttestation: {HalfLifeHours: 1440, Weight: 5},
}

func newComponent(signal model.TrustSignal, label string, value float64, at time.Time, proof string) model.TrustComponent {
	d := SignalDefaults[signal]
	return model.TrustComponent{
		Label:          label,
		Value:          value,
		HalfLifeHours:  d.HalfLifeHours,
		Weight:         d.Weight,
		Signal:         signal,
		LastUpdated:    at,
		ProofReference: proof,
	}
}

// MissionCompletion records how well a mission went.
func MissionCompletion(label string, value float64, at time.Time) model.TrustComponent {
	return newComponent(model.TrustMissionCompletion, label, value, at, "")
}

// PeerReview records a rating from another responder.
func PeerReview(label string, value float64, at time.Time) model.TrustComponent {
	return newComponent(model.TrustPeerReview, label, value, at, "")
}

// ZkSkillProof records a verified skill proof.
func ZkSkillProof(label string, value float64, at time.Time, proof string) model.TrustComponent {
	return newComponent(model.TrustZkSkillProof, label, value, at, proof)
}

// OnChainAttestation records an external attestation.
func OnChainAttestation(label string, value float64, at time.Time, proof string) model.TrustComponent {
	return newComponent(model.TrustOnChainAttestation, label, value, at, proof)
}

// Fill applies the signal defaults to components missing a half-life or a
// weight. Components with an unknown signal are returned unchanged.
func Fill(components []model.TrustComponent) []model.TrustComponent {
	out := make([]model.TrustComponent, len(components))
	for i, c := range components {
		if d, ok := SignalDefaults[c.Signal]; ok {
			if c.HalfLifeHours == 0 {
				c.HalfLifeHours = d.HalfLifeHours
			}
			if c.Weight == 0 {
				c.Weight = d.Weight
			}
		}
		out[i] = c
	}
	return out
}
