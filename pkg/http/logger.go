package http

import (
	"net/url"
	"strings"

	"weather-bot/pkg/log"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent with all request data formed
	LogRequest(method, url string, headers map[string]string, body string)

	// LogResponseSuccess is called immediately after receiving a successful response (non-error HTTP status)
	LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64)

	// LogResponseError is called immediately after receiving an error response or a transport failure
	LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error)

	// LogRequestRetry is called when backoff exists and a retry attempt is about to be made
	LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int)
}

const redacted = "***"

// ZapHTTPLogger writes HTTP events through pkg/log. Query parameters listed in
// sensitiveParams are masked before the URL is logged.
type ZapHTTPLogger struct {
	name            string
	sensitiveParams map[string]struct{}
	maxBody         int
}

// NewZapHTTPLogger creates a logger tagged with the client name.
func NewZapHTTPLogger(name string, sensitiveParams ...string) *ZapHTTPLogger {
	params := make(map[string]struct{}, len(sensitiveParams))
	for _, p := range sensitiveParams {
		params[strings.ToLower(p)] = struct{}{}
	}
	return &ZapHTTPLogger{name: name, sensitiveParams: params, maxBody: 512}
}

func (l *ZapHTTPLogger) LogRequest(method, rawURL string, _ map[string]string, body string) {
	log.Debugw("http request",
		"client", l.name,
		"method", method,
		"url", l.redact(rawURL),
		"body", l.truncate(body))
}

func (l *ZapHTTPLogger) LogResponseSuccess(method, rawURL string, _ map[string]string, _ string, httpStatus int, responseBody string, latency int64) {
	log.Debugw("http response",
		"client", l.name,
		"method", method,
		"url", l.redact(rawURL),
		"status", httpStatus,
		"latency_ms", latency,
		"response", l.truncate(responseBody))
}

func (l *ZapHTTPLogger) LogResponseError(method, rawURL string, _ map[string]string, _ string, httpStatus int, responseBody string, latency int64, err error) {
	log.Debugw("http response error",
		"client", l.name,
		"method", method,
		"url", l.redact(rawURL),
		"status", httpStatus,
		"latency_ms", latency,
		"response", l.truncate(responseBody),
		"error", err)
}

func (l *ZapHTTPLogger) LogRequestRetry(method, rawURL string, _ map[string]string, _ string, httpStatus int, _ string, latency int64, err error, retryCount, maxRetries int) {
	log.Warnw("http request retry",
		"client", l.name,
		"method", method,
		"url", l.redact(rawURL),
		"status", httpStatus,
		"latency_ms", latency,
		"retry", retryCount,
		"max_retries", maxRetries,
		"error", err)
}

func (l *ZapHTTPLogger) redact(rawURL string) string {
	if len(l.sensitiveParams) == 0 {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	changed := false
	for key := range query {
		if _, ok := l.sensitiveParams[strings.ToLower(key)]; ok {
			query.Set(key, redacted)
			changed = true
		}
	}
	if changed {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func (l *ZapHTTPLogger) truncate(body string) string {
	if len(body) <= l.maxBody {
		return body
	}
	return body[:l.maxBody] + "..."
}
