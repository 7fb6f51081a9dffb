package limiter

import (
	"context"
	"strconv"

	"weather-bot/pkg/redis"
)

// ChatLimiter decides whether a chat may run another place query
type ChatLimiter interface {
	Allow(ctx context.Context, chatID int64) (bool, error)
}

type unlimited struct{}

// NewUnlimited returns a limiter that allows everything
func NewUnlimited() ChatLimiter {
	return unlimited{}
}

func (unlimited) Allow(context.Context, int64) (bool, error) { return true, nil }

type redisChatLimiter struct {
	limiter *redis.RateLimiter
}

// NewRedisChatLimiter allows limitPerMinute queries per chat in a sliding minute window.
func NewRedisChatLimiter(client redis.Scripter, namespace string, limitPerMinute int) (ChatLimiter, error) {
	opts := redis.NewRateLimiterOptions(limitPerMinute)
	opts.Namespace = namespace

	limiter, err := redis.NewRateLimiter(client, "chat-queries", opts)
	if err != nil {
		return nil, err
	}
	return &redisChatLimiter{limiter: limiter}, nil
}

func (l *redisChatLimiter) Allow(ctx context.Context, chatID int64) (bool, error) {
	return l.limiter.Allow(ctx, strconv.FormatInt(chatID, 10))
}
