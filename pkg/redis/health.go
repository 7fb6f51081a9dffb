package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthStatus represents the health status
type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// HealthCheck is the result of probing the connection
type HealthCheck struct {
	Status  HealthStatus
	Details map[string]string
}

// Health pings the server and reports pool statistics.
func (c *Client) Health(ctx context.Context) HealthCheck {
	details := map[string]string{
		"host":     c.config.Host,
		"port":     strconv.Itoa(c.config.Port),
		"database": strconv.Itoa(c.config.Database),
	}

	start := time.Now()
	if err := c.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return HealthCheck{Status: StatusDown, Details: details}
	}
	details["ping_latency"] = time.Since(start).String()

	if stats := c.Stats(); stats != nil {
		details["total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
		details["idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)
		details["timeouts"] = strconv.FormatUint(uint64(stats.Timeouts), 10)
	}

	return HealthCheck{Status: StatusUp, Details: details}
}

func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
