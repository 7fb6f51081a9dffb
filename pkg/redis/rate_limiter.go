package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// slidingWindowScript keeps one sorted set per subject scored by request time in
// milliseconds. Entries older than the window are trimmed before counting.
const slidingWindowScript = `
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local member = ARGV[4]

	redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
	local count = redis.call("ZCARD", key)
	if count >= limit then
		return 0
	end

	redis.call("ZADD", key, now, member)
	redis.call("PEXPIRE", key, window)
	return 1
`

// RateLimiterOptions represents options for rate limiting
type RateLimiterOptions struct {
	// Limit is the number of requests allowed per subject within Window
	Limit int
	// Window is the sliding window length
	Window time.Duration
	// Namespace prefixes keys as namespace::name::subject
	Namespace string
}

// NewRateLimiterOptions creates options allowing limit requests per minute
func NewRateLimiterOptions(limit int) *RateLimiterOptions {
	return &RateLimiterOptions{
		Limit:  limit,
		Window: time.Minute,
	}
}

// Validate validates the rate limiter options
func (o *RateLimiterOptions) Validate() error {
	if o.Limit < 1 {
		return fmt.Errorf("invalid limit: %d, must be positive", o.Limit)
	}
	if o.Window <= 0 {
		return fmt.Errorf("invalid window: %v, must be positive", o.Window)
	}
	return nil
}

// RateLimiter is a distributed sliding-window limiter keyed by subject
// (for example a chat id). Each subject has an independent budget.
type RateLimiter struct {
	client Scripter
	name   string
	opts   *RateLimiterOptions
	now    func() time.Time
}

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(client Scripter, name string, opts *RateLimiterOptions) (*RateLimiter, error) {
	if opts == nil {
		return nil, fmt.Errorf("rate limiter options are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &RateLimiter{
		client: client,
		name:   name,
		opts:   opts,
		now:    time.Now,
	}, nil
}

func (rl *RateLimiter) buildKey(subject string) string {
	if rl.opts.Namespace != "" {
		return rl.opts.Namespace + "::" + rl.name + "::" + subject
	}
	return rl.name + "::" + subject
}

// Allow records a request for subject and reports whether it fits in the window.
// Rejected requests are not recorded.
func (rl *RateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	now := rl.now().UnixMilli()
	result, err := rl.client.Eval(ctx, slidingWindowScript, []string{rl.buildKey(subject)},
		rl.opts.Limit,
		now,
		rl.opts.Window.Milliseconds(),
		strconv.FormatInt(now, 10)+":"+uuid.NewString(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rate limiter: %w", err)
	}
	return result == 1, nil
}
