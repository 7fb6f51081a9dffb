package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"weather-bot/internal/domain/model/external"
	"weather-bot/pkg/http"
	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
)

const (
	currentWeatherPath = "/data/2.5/weather"
	forecastPath       = "/data/2.5/forecast"
)

// BreakerConfig configures the provider circuit breaker
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// OpenWeatherConfig holds the provider settings
type OpenWeatherConfig struct {
	BaseURL  string
	APIKey   string
	Language string
	Units    string
	Breaker  BreakerConfig
}

// openWeatherGateway implements the WeatherGateway interface against OpenWeatherMap
type openWeatherGateway struct {
	httpClient *http.Client
	config     OpenWeatherConfig
	circuit    *gobreaker.CircuitBreaker
}

// NewOpenWeatherGateway creates a new instance of WeatherGateway with HTTP client
func NewOpenWeatherGateway(config OpenWeatherConfig, clientOptions http.ClientOptions) WeatherGateway {
	if config.Language == "" {
		config.Language = "ru"
	}
	if config.Units == "" {
		config.Units = "metric"
	}
	if config.Breaker.ConsecutiveFailures == 0 {
		config.Breaker.ConsecutiveFailures = 5
	}
	if clientOptions.Logger == nil {
		clientOptions.Logger = http.NewZapHTTPLogger("openweathermap", "appid")
	}

	failures := config.Breaker.ConsecutiveFailures
	circuit := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: config.Breaker.MaxRequests,
		Interval:    config.Breaker.Interval,
		Timeout:     config.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(msg.GetMessage("log.breaker-state", name, from.String(), to.String()))
		},
	})

	return &openWeatherGateway{
		httpClient: http.NewHttpClient(config.BaseURL, clientOptions),
		config:     config,
		circuit:    circuit,
	}
}

// GetCurrentWeather fetches current conditions for the place
func (g *openWeatherGateway) GetCurrentWeather(ctx context.Context, place string) (*external.CurrentWeatherResponse, error) {
	response := &external.CurrentWeatherResponse{}
	if err := g.get(ctx, currentWeatherPath, place, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetForecast fetches the 5 day / 3 hour forecast for the place
func (g *openWeatherGateway) GetForecast(ctx context.Context, place string) (*external.ForecastResponse, error) {
	response := &external.ForecastResponse{}
	if err := g.get(ctx, forecastPath, place, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Health reports the breaker state; an open breaker means the provider is failing
func (g *openWeatherGateway) Health() ProviderHealth {
	return ProviderHealth{Name: g.circuit.Name(), State: g.circuit.State().String()}
}

// get runs one provider call through the breaker. A 404 counts as a successful
// call for the breaker and surfaces as ErrPlaceNotFound.
func (g *openWeatherGateway) get(ctx context.Context, path, place string, target any) error {
	result, err := g.circuit.Execute(func() (interface{}, error) {
		_, errResp, status, err := g.httpClient.Request().
			WithContext(ctx).
			WithMethod(http.GET).
			WithPath(path).
			WithQueryParams(g.queryParams(place)).
			WithSuccessResp(target).
			WithErrorResp(&external.APIErrorResponse{}).
			Execute()

		if err == nil {
			return false, nil
		}
		if status == 404 {
			return true, nil
		}
		if errResp != nil {
			if apiErr, ok := errResp.(*external.APIErrorResponse); ok && apiErr.Message != "" {
				return nil, fmt.Errorf("openweathermap %s: %s: %w", path, apiErr.Message, err)
			}
		}
		return nil, fmt.Errorf("openweathermap %s: %w", path, err)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("openweathermap %s: circuit breaker: %w", path, err)
		}
		return err
	}
	if notFound, _ := result.(bool); notFound {
		return ErrPlaceNotFound
	}
	return nil
}

func (g *openWeatherGateway) queryParams(place string) map[string]string {
	return map[string]string{
		"q":     place,
		"appid": g.config.APIKey,
		"units": g.config.Units,
		"lang":  g.config.Language,
	}
}
