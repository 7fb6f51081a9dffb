package cache

import (
	"context"

	"weather-bot/internal/domain/model"
	"weather-bot/pkg/redis"
)

type HealthCacheGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

type RedisHealthCacheGateway struct {
	Client *redis.Client
}

var _ HealthCacheGateway = (*RedisHealthCacheGateway)(nil)

// NewRedisHealthCacheGateway wraps the shared client; a nil client means redis is disabled
func NewRedisHealthCacheGateway(client *redis.Client) *RedisHealthCacheGateway {
	return &RedisHealthCacheGateway{Client: client}
}

func (gateway *RedisHealthCacheGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	if gateway.Client == nil {
		return model.Unknown("Redis disabled")
	}

	check := gateway.Client.Health(ctx)
	if check.Status != redis.StatusUp {
		return model.ComponentHealthStatus{
			Status:  model.StatusDown,
			Details: check.Details,
		}
	}

	return model.ComponentHealthStatus{
		Status:  model.StatusUp,
		Details: check.Details,
	}
}
