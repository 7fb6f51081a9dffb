package weather

import (
	"fmt"
	"strings"
	"time"

	"weather-bot/internal/domain/entity"
	"weather-bot/internal/domain/model/external"
)

// aggregateForecast summarises the first window samples of the series
func aggregateForecast(items []external.ForecastItem, window int, adjectives map[string]string) (entity.ForecastAggregate, error) {
	if len(items) > window {
		items = items[:window]
	}
	if len(items) == 0 {
		return entity.ForecastAggregate{}, ErrEmptyForecast
	}

	samples := make([]entity.ForecastSample, 0, len(items))
	for i, item := range items {
		if len(item.Weather) == 0 {
			return entity.ForecastAggregate{}, fmt.Errorf("%w: forecast sample %d has no weather", ErrProvider, i)
		}
		samples = append(samples, entity.ForecastSample{
			TemperatureC:   item.Main.Temp,
			DetailedStatus: item.Weather[0].Description,
		})
	}

	aggregate := entity.ForecastAggregate{
		Samples:  samples,
		TempMinC: samples[0].TemperatureC,
		TempMaxC: samples[0].TemperatureC,
	}
	for _, sample := range samples[1:] {
		aggregate.TempMinC = min(aggregate.TempMinC, sample.TemperatureC)
		aggregate.TempMaxC = max(aggregate.TempMaxC, sample.TemperatureC)
	}

	aggregate.DominantStatus = dominantStatus(samples)
	aggregate.DominantAdjective = adjectiveFor(aggregate.DominantStatus, adjectives)
	return aggregate, nil
}

// dominantStatus returns the most frequent status. On a tie the status seen
// first in the window wins.
func dominantStatus(samples []entity.ForecastSample) string {
	counts := make(map[string]int, len(samples))
	order := make([]string, 0, len(samples))
	for _, sample := range samples {
		if counts[sample.DetailedStatus] == 0 {
			order = append(order, sample.DetailedStatus)
		}
		counts[sample.DetailedStatus]++
	}

	best := order[0]
	for _, status := range order[1:] {
		if counts[status] > counts[best] {
			best = status
		}
	}
	return best
}

func adjectiveFor(status string, adjectives map[string]string) string {
	if adjective, ok := adjectives[strings.ToLower(status)]; ok {
		return adjective
	}
	return status
}

// normaliseAdjectives lower-cases the keys so lookups are case-insensitive
func normaliseAdjectives(table map[string]string) map[string]string {
	if table == nil {
		table = DefaultStatusAdjectives()
	}
	normalised := make(map[string]string, len(table))
	for status, adjective := range table {
		normalised[strings.ToLower(strings.TrimSpace(status))] = adjective
	}
	return normalised
}

// sunTimes converts the provider's unix instants into loc
func sunTimes(sunrise, sunset int64, loc *time.Location) (entity.SunTimes, error) {
	sunriseLocal := time.Unix(sunrise, 0).In(loc)
	sunsetLocal := time.Unix(sunset, 0).In(loc)

	daylight := sunsetLocal.Sub(sunriseLocal)
	if daylight < 0 {
		return entity.SunTimes{}, fmt.Errorf("%w: sunrise %s after sunset %s",
			ErrInvalidDuration, sunriseLocal.Format(time.RFC3339), sunsetLocal.Format(time.RFC3339))
	}

	return entity.SunTimes{
		SunriseLocal: sunriseLocal,
		SunsetLocal:  sunsetLocal,
		Daylight: entity.DaylightDuration{
			Hours:   int(daylight.Hours()),
			Minutes: int(daylight.Minutes()) % 60,
		},
	}, nil
}
