package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
)

const webhookSegment = "/telegram/webhook/"

// SetupRequestLogger registers the request id and request logging middlewares.
func SetupRequestLogger(e *echo.Echo) {
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/health")
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			uri := RedactWebhookSecret(v.URI)
			if v.Error == nil {
				log.Info(msg.GetMessage("app.req-end", v.Method, uri, v.Status, v.Latency, v.RequestID),
					zap.String("method", v.Method),
					zap.String("uri", uri),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
					zap.String("request_id", v.RequestID),
				)
			} else {
				log.Error(msg.GetMessage("app.req-fail", v.Method, uri, v.Status, v.Latency, v.RequestID, v.Error),
					zap.String("method", v.Method),
					zap.String("uri", uri),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
					zap.String("request_id", v.RequestID),
					zap.Error(v.Error),
				)
			}
			return nil
		},
	}))
}

// RedactWebhookSecret masks the secret path segment of the Telegram webhook route
func RedactWebhookSecret(uri string) string {
	index := strings.Index(uri, webhookSegment)
	if index < 0 {
		return uri
	}
	prefix := uri[:index+len(webhookSegment)]
	rest := uri[index+len(webhookSegment):]
	if end := strings.IndexAny(rest, "/?"); end >= 0 {
		return prefix + "***" + rest[end:]
	}
	return prefix + "***"
}
