package model

import "time"

// TrustSignal identifies the source of a trust component.
type TrustSignal string

const (
	TrustMissionCompletion  TrustSignal = "MissionCompletion"
	TrustPeerReview         TrustSignal = "PeerReview"
	TrustZkSkillProof       TrustSignal = "ZkSkillProof"
	TrustOnChainAttestation TrustSignal = "OnChainAttestation"
)

// TrustComponent is one raw trust signal. DecayedValue is filled in when a
// profile is computed.
type TrustComponent struct {
	Label          string      `json:"label" yaml:"label"`
	Value          float64     `json:"value" yaml:"value"`
	HalfLifeHours  float64     `json:"halfLifeHours" yaml:"half_life_hours"`
	Weight         float64     `json:"weight" yaml:"weight"`
	Signal         TrustSignal `json:"signal" yaml:"signal"`
	LastUpdated    time.Time   `json:"lastUpdated" yaml:"last_updated"`
	ProofReference string      `json:"proofReference,omitempty" yaml:"proof_reference,omitempty"`
	DecayedValue   float64     `json:"decayedValue" yaml:"-"`
}

// TrustProfile is the recomputed trust score of a responder.
type TrustProfile struct {
	ResponderID    string           `json:"responderId"`
	Score          int              `json:"score"`
	Components     []TrustComponent `json:"components"`
	LastComputedAt time.Time        `json:"lastComputedAt"`
}
