package http

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"
)

// BackoffConfig controls exponential retry of transient failures
// (transport errors, 429 and 5xx). MaxRetries 0 means a single attempt.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// NewBackoffConfig returns a config with sane intervals and the given retry budget.
func NewBackoffConfig(maxRetries int) *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      maxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
	}
}

// delay returns the wait before retry number attempt (zero based).
func (b *BackoffConfig) delay(attempt int) time.Duration {
	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}
	initial := b.InitialInterval
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}

	d := time.Duration(float64(initial) * math.Pow(multiplier, float64(attempt)))
	if b.MaxInterval > 0 && d > b.MaxInterval {
		d = b.MaxInterval
	}
	return d
}

func retryable(ctx context.Context, status int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	// Transport failures carry no status.
	return err != nil && status == 0
}

func (hc *Client) doRequestWithBackoff(ctx context.Context, spec requestSpec, override *BackoffConfig) (any, any, int, error) {
	backoff := override
	if backoff == nil {
		backoff = hc.defaultBackoff
	}
	if backoff == nil || backoff.MaxRetries <= 0 {
		return hc.doRequest(ctx, spec)
	}

	for attempt := 0; ; attempt++ {
		start := time.Now()
		success, errResp, status, err := hc.doRequest(ctx, spec)
		if err == nil || attempt >= backoff.MaxRetries || !retryable(ctx, status, err) {
			return success, errResp, status, err
		}

		if hc.logger != nil {
			hc.logger.LogRequestRetry(spec.method, hc.buildURL(spec.path), spec.headers, "", status, "",
				time.Since(start).Milliseconds(), err, attempt+1, backoff.MaxRetries)
		}

		timer := time.NewTimer(backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, nil, status, ctx.Err()
		case <-timer.C:
		}
	}
}
