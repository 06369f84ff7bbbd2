// Package mqtt defines how engine results are pushed to field units.
package mqtt

import (
	"context"
	"errors"

	"github.com/cryptonique0/cecd/core/model"
)

// ErrNotConnected is returned when publishing on a client without a broker
// session.
var ErrNotConnected = errors.New("mqtt: not connected")

// Publisher notifies field units of dispatch suggestions and resupply routes.
type Publisher interface {
	PublishSuggestion(ctx context.Context, s model.DispatchSuggestion) error
	PublishResupply(ctx context.Context, r model.ResupplyRoute) error
}

// NopPublisher drops every notification.
type NopPublisher struct{}

func (NopPublisher) PublishSuggestion(context.Context, model.DispatchSuggestion) error { return nil }
func (NopPublisher) PublishResupply(context.Context, model.ResupplyRoute) error        { return nil }
