package mqtt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cryptonique0/cecd/core/model"
)

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	m.FailIDs["bad"] = true
	ctx := context.Background()

	assert.NoError(t, m.PublishSuggestion(ctx, model.DispatchSuggestion{IncidentID: "ok"}))
	assert.Error(t, m.PublishSuggestion(ctx, model.DispatchSuggestion{IncidentID: "bad"}))
	assert.NoError(t, m.PublishResupply(ctx, model.ResupplyRoute{AssetID: "t1"}))
	assert.Error(t, m.PublishResupply(ctx, model.ResupplyRoute{AssetID: "bad"}))

	s, r := m.Counts()
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, r)
	assert.Equal(t, "ok", m.Suggestions[0].IncidentID)
}
