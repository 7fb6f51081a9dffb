package queue

import (
	"context"

	"weather-bot/internal/domain/model"
)

// QueryEventPublisher emits query events for downstream consumers
type QueryEventPublisher interface {
	Publish(ctx context.Context, event model.QueryEvent) error
	Health(ctx context.Context) model.ComponentHealthStatus
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event
func NewNoopPublisher() QueryEventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, model.QueryEvent) error { return nil }

func (noopPublisher) Health(context.Context) model.ComponentHealthStatus {
	return model.Unknown("Query events disabled")
}
