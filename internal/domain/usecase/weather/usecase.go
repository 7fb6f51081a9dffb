package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weather-bot/internal/domain/entity"
)

type UseCase interface {
	// Assemble looks the place up and builds its summary. Errors wrap one of the
	// sentinels in errors.go.
	Assemble(ctx context.Context, place string) (*entity.WeatherSummary, error)
}

// TimezoneFallback decides what Assemble does when the coordinates map to no zone
type TimezoneFallback string

const (
	// FallbackUTC renders the summary in UTC and marks it approximate
	FallbackUTC TimezoneFallback = "utc"
	// FallbackProviderOffset uses the fixed UTC offset the provider reports for the place
	FallbackProviderOffset TimezoneFallback = "provider-offset"
	// FallbackFail reports ErrTimezoneUnresolved
	FallbackFail TimezoneFallback = "fail"
)

// ParseTimezoneFallback accepts the configured policy name, case-insensitively
func ParseTimezoneFallback(value string) (TimezoneFallback, error) {
	switch policy := TimezoneFallback(strings.ToLower(strings.TrimSpace(value))); policy {
	case "":
		return FallbackUTC, nil
	case FallbackUTC, FallbackProviderOffset, FallbackFail:
		return policy, nil
	default:
		return "", fmt.Errorf("unknown timezone fallback %q", value)
	}
}

// DefaultForecastWindow is eight 3-hour samples, roughly the next 24 hours
const DefaultForecastWindow = 8

type Options struct {
	ForecastWindow   int
	TimezoneFallback TimezoneFallback
	// StatusAdjectives maps a lower-cased status to the adjective used for tomorrow.
	// Nil means DefaultStatusAdjectives.
	StatusAdjectives map[string]string
	// Clock returns the current instant; nil means time.Now
	Clock func() time.Time
}

// DefaultStatusAdjectives agrees each status with the feminine noun "погода"
func DefaultStatusAdjectives() map[string]string {
	return map[string]string{
		"ясно":            "ясная",
		"солнечно":        "солнечная",
		"пасмурно":        "пасмурная",
		"снег":            "снежная",
		"дождь":           "дождливая",
		"небольшой дождь": "дождливая",
		"гроза":           "грозовая",
		"облачно с прояснениями": "облачная с прояснениями",
	}
}
