package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weather-bot/internal/domain/entity"
	"weather-bot/internal/domain/gateway/api"
	"weather-bot/internal/domain/gateway/timezone"
	"weather-bot/internal/domain/model/external"
	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
)

type weatherUseCase struct {
	apiGateway       api.WeatherGateway
	resolver         timezone.Resolver
	forecastWindow   int
	timezoneFallback TimezoneFallback
	adjectives       map[string]string
	clock            func() time.Time
}

func NewWeatherUseCase(apiGateway api.WeatherGateway, resolver timezone.Resolver, opts Options) UseCase {
	if opts.ForecastWindow <= 0 {
		opts.ForecastWindow = DefaultForecastWindow
	}
	if opts.TimezoneFallback == "" {
		opts.TimezoneFallback = FallbackUTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &weatherUseCase{
		apiGateway:       apiGateway,
		resolver:         resolver,
		forecastWindow:   opts.ForecastWindow,
		timezoneFallback: opts.TimezoneFallback,
		adjectives:       normaliseAdjectives(opts.StatusAdjectives),
		clock:            opts.Clock,
	}
}

// Assemble fetches current weather first, so an unknown place costs a single call
func (uc *weatherUseCase) Assemble(ctx context.Context, place string) (*entity.WeatherSummary, error) {
	place = strings.TrimSpace(place)

	current, err := uc.apiGateway.GetCurrentWeather(ctx, place)
	if err != nil {
		return nil, classifyProviderError("current weather", err)
	}

	forecast, err := uc.apiGateway.GetForecast(ctx, place)
	if err != nil {
		return nil, classifyProviderError("forecast", err)
	}

	conditions, err := currentConditions(current)
	if err != nil {
		return nil, err
	}

	aggregate, err := aggregateForecast(forecast.List, uc.forecastWindow, uc.adjectives)
	if err != nil {
		return nil, err
	}

	loc, approximate, err := uc.location(place, current)
	if err != nil {
		return nil, err
	}

	sun, err := sunTimes(current.Sys.Sunrise, current.Sys.Sunset, loc)
	if err != nil {
		return nil, err
	}

	return &entity.WeatherSummary{
		Place:               place,
		LocalTime:           uc.clock().In(loc),
		TimezoneName:        loc.String(),
		TimezoneApproximate: approximate,
		Current:             conditions,
		Sun:                 sun,
		Forecast:            aggregate,
	}, nil
}

// location resolves the place's zone from its coordinates and applies the fallback policy.
// The bool reports a summary rendered in UTC for lack of a zone.
func (uc *weatherUseCase) location(place string, current *external.CurrentWeatherResponse) (*time.Location, bool, error) {
	lat, lon := current.Coord.Lat, current.Coord.Lon

	if name, ok := uc.resolver.Resolve(lat, lon); ok {
		loc, err := time.LoadLocation(name)
		if err == nil {
			return loc, false, nil
		}
		log.Warnw("timezone not in database", "timezone", name, "error", err)
	}

	log.Warn(msg.GetMessage("log.timezone-fallback", place, lat, lon, string(uc.timezoneFallback)))

	switch uc.timezoneFallback {
	case FallbackFail:
		return nil, false, fmt.Errorf("%w: no zone for (%v, %v)", ErrTimezoneUnresolved, lat, lon)
	case FallbackProviderOffset:
		return time.FixedZone(offsetName(current.Timezone), current.Timezone), false, nil
	default:
		return time.UTC, true, nil
	}
}

func currentConditions(current *external.CurrentWeatherResponse) (entity.CurrentConditions, error) {
	if len(current.Weather) == 0 {
		return entity.CurrentConditions{}, fmt.Errorf("%w: current weather has no status", ErrProvider)
	}
	if current.Visibility == nil {
		return entity.CurrentConditions{}, fmt.Errorf("%w: current weather has no visibility", ErrProvider)
	}

	rain, rainReported := 0.0, false
	if current.Rain != nil && current.Rain.ThreeHours != nil {
		rain, rainReported = *current.Rain.ThreeHours, true
	}

	return entity.CurrentConditions{
		DetailedStatus: current.Weather[0].Description,
		TemperatureC:   current.Main.Temp,
		FeelsLikeC:     current.Main.FeelsLike,
		RainLast3hMM:   rain,
		RainReported:   rainReported,
		VisibilityKM:   float64(*current.Visibility) / 1000,
	}, nil
}

func classifyProviderError(call string, err error) error {
	if errors.Is(err, api.ErrPlaceNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, call, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrProvider, call, err)
}

// offsetName renders seconds east of UTC as UTC+03:00
func offsetName(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, seconds%3600/60)
}
