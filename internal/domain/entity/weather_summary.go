package entity

import "time"

// WeatherSummary is everything the bot reports for one place. It is built per request
// and never shared.
type WeatherSummary struct {
	Place     string
	LocalTime time.Time
	// TimezoneName is the IANA zone, or the name of the fallback zone
	TimezoneName string
	// TimezoneApproximate marks a summary rendered in UTC because the zone was unknown
	TimezoneApproximate bool
	Current             CurrentConditions
	Sun                 SunTimes
	Forecast            ForecastAggregate
}

type CurrentConditions struct {
	DetailedStatus string
	TemperatureC   float64
	FeelsLikeC     float64
	// RainLast3hMM is 0 when the provider omits the field
	RainLast3hMM float64
	RainReported bool
	VisibilityKM float64
}

type SunTimes struct {
	SunriseLocal time.Time
	SunsetLocal  time.Time
	Daylight     DaylightDuration
}

// DaylightDuration is sunset minus sunrise split into whole hours and remaining minutes.
type DaylightDuration struct {
	Hours   int
	Minutes int
}

type ForecastSample struct {
	TemperatureC   float64
	DetailedStatus string
}

// ForecastAggregate summarises the forecast window used for "tomorrow".
type ForecastAggregate struct {
	Samples           []ForecastSample
	TempMinC          float64
	TempMaxC          float64
	DominantStatus    string
	DominantAdjective string
}
