package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/cryptonique0/cecd/core/model"
	coremqtt "github.com/cryptonique0/cecd/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher records notifications in memory. Ids listed in FailIDs
// (incident ids for suggestions, asset ids for resupply routes) fail.
type MockPublisher struct {
	Suggestions []model.DispatchSuggestion
	Resupplies  []model.ResupplyRoute
	FailIDs     map[string]bool
	mu          sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailIDs: make(map[string]bool)}
}

// PublishSuggestion records s or fails if its incident is in FailIDs.
func (m *MockPublisher) PublishSuggestion(_ context.Context, s model.DispatchSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[s.IncidentID] {
		return fmt.Errorf("publish failed")
	}
	m.Suggestions = append(m.Suggestions, s)
	return nil
}

// PublishResupply records r or fails if its asset is in FailIDs.
func (m *MockPublisher) PublishResupply(_ context.Context, r model.ResupplyRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[r.AssetID] {
		return fmt.Errorf("publish failed")
	}
	m.Resupplies = append(m.Resupplies, r)
	return nil
}

// Counts returns the number of recorded suggestions and resupply routes.
func (m *MockPublisher) Counts() (suggestions, resupplies int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Suggestions), len(m.Resupplies)
}
