package api

import (
	"context"
	"errors"

	"weather-bot/internal/domain/model/external"
)

// ErrPlaceNotFound is returned when the provider does not recognise the place name
var ErrPlaceNotFound = errors.New("place not found")

// WeatherGateway defines the interface for the weather provider calls
type WeatherGateway interface {
	// GetCurrentWeather returns current conditions for a free-text place name.
	// Returns ErrPlaceNotFound when the provider answers 404.
	GetCurrentWeather(ctx context.Context, place string) (*external.CurrentWeatherResponse, error)

	// GetForecast returns the 3-hour step forecast for a free-text place name.
	GetForecast(ctx context.Context, place string) (*external.ForecastResponse, error)

	// Health reports the circuit breaker state of the provider client
	Health() ProviderHealth
}

// ProviderHealth is a snapshot of the provider client
type ProviderHealth struct {
	Name  string
	State string
}
