package health

import (
	"context"

	"weather-bot/internal/domain/gateway/api"
	"weather-bot/internal/domain/gateway/cache"
	"weather-bot/internal/domain/gateway/chat"
	"weather-bot/internal/domain/gateway/queue"
	"weather-bot/internal/domain/model"
)

type healthUseCase struct {
	apiGateway   api.WeatherGateway
	cacheGateway cache.HealthCacheGateway
	publisher    queue.QueryEventPublisher
	chatGateway  chat.HealthGateway
}

func NewHealthUseCase(apiGateway api.WeatherGateway, cacheGateway cache.HealthCacheGateway, publisher queue.QueryEventPublisher, chatGateway chat.HealthGateway) UseCase {
	return &healthUseCase{
		apiGateway:   apiGateway,
		cacheGateway: cacheGateway,
		publisher:    publisher,
		chatGateway:  chatGateway,
	}
}

// CheckHealth reports DOWN when any component is DOWN. UNKNOWN marks a disabled
// optional component and does not affect the overall status.
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	providerHealth := providerStatus(useCase.apiGateway.Health())
	redisHealth := useCase.cacheGateway.Health(ctx)
	eventsHealth := useCase.publisher.Health(ctx)
	chatHealth := useCase.chatGateway.Health()

	overallStatus := model.StatusUp
	for _, component := range []model.ComponentHealthStatus{providerHealth, redisHealth, eventsHealth, chatHealth} {
		if component.Status == model.StatusDown {
			overallStatus = model.StatusDown
		}
	}

	return model.HealthResponse{
		Status:   overallStatus,
		Provider: providerHealth,
		Redis:    redisHealth,
		Events:   eventsHealth,
		Chat:     chatHealth,
	}
}

// providerStatus maps the breaker state; only an open breaker is DOWN
func providerStatus(health api.ProviderHealth) model.ComponentHealthStatus {
	status := model.StatusUp
	if health.State == "open" {
		status = model.StatusDown
	}
	return model.ComponentHealthStatus{
		Status: status,
		Details: map[string]string{
			"name":    health.Name,
			"breaker": health.State,
		},
	}
}
