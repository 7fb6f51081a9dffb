package weather

import "errors"

var (
	// ErrNotFound means the provider does not know the place
	ErrNotFound = errors.New("place not found")
	// ErrProvider covers network, auth, breaker and malformed response failures
	ErrProvider = errors.New("weather provider failure")
	// ErrTimezoneUnresolved means no zone matched the coordinates and the policy is fail
	ErrTimezoneUnresolved = errors.New("timezone unresolved")
	// ErrInvalidDuration means sunset came before sunrise
	ErrInvalidDuration = errors.New("invalid daylight duration")
	// ErrEmptyForecast means the provider returned no forecast samples
	ErrEmptyForecast = errors.New("empty forecast")
)
