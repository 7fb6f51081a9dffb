package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"weather-bot/pkg/msg"
	"weather-bot/pkg/resource"
)

type AppConfig struct {
	Name     string `validate:"required"`
	Server   ServerConfig
	Telegram TelegramConfig
	Weather  WeatherConfig
	Redis    RedisConfig
	Events   EventsConfig
	Cloud    CloudConfig
	Health   HealthConfig
}

type ServerConfig struct {
	Port            int    `validate:"min=1,max=65535"`
	ContextPath     string `validate:"omitempty,startswith=/"`
	ShutdownTimeout time.Duration
}

type TelegramConfig struct {
	Token            string `validate:"required"`
	APIEndpoint      string
	Mode             string        `validate:"oneof=polling webhook"`
	PollTimeout      int           `validate:"min=0"`
	HandlerTimeout   time.Duration `validate:"gt=0"`
	WebhookURL       string        `validate:"required_if=Mode webhook"`
	WebhookSecret    string        `validate:"required_if=Mode webhook"`
	Debug            bool
	GreetingCommands []string
}

type WeatherConfig struct {
	BaseURL          string `validate:"required,url"`
	APIKey           string `validate:"required"`
	Language         string
	Units            string
	RequestTimeout   time.Duration
	MaxRetries       int    `validate:"min=0"`
	ForecastWindow   int    `validate:"gt=0"`
	TimezoneFallback string `validate:"oneof=utc provider-offset fail"`
	CircuitBreaker   CircuitBreakerConfig
	StatusAdjectives []StatusAdjective `validate:"dive"`
}

type CircuitBreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32 `validate:"gt=0"`
}

type StatusAdjective struct {
	Status    string `mapstructure:"status" validate:"required"`
	Adjective string `mapstructure:"adjective" validate:"required"`
}

type RedisConfig struct {
	Enabled            bool
	Host               string `validate:"required_if=Enabled true"`
	Port               int
	Password           string
	Database           int
	Namespace          string
	RateLimitPerMinute int `validate:"min=0"`
	PollerLockTTL      time.Duration
	PollerLockRefresh  time.Duration `validate:"ltfield=PollerLockTTL"`
}

type EventsConfig struct {
	Enabled   bool
	QueueName string `validate:"required_if=Enabled true"`
}

type CloudConfig struct {
	AWSRegion          string
	AWSEndpoint        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

type HealthConfig struct {
	Cron string
}

var validate = validator.New()

// Load reads .env (when present), application.yml and messages.yml, and returns
// the validated configuration.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("fail to read .env: %w", err)
	}
	if err := resource.Init(resource.Path()); err != nil {
		return nil, err
	}
	if err := msg.Init(msg.Path()); err != nil {
		return nil, err
	}

	cfg, err := fromProperties()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and allowed enumerations
func (cfg *AppConfig) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// StatusAdjectiveTable returns the adjective table as a map, or nil when none is configured
func (w WeatherConfig) StatusAdjectiveTable() map[string]string {
	if len(w.StatusAdjectives) == 0 {
		return nil
	}
	table := make(map[string]string, len(w.StatusAdjectives))
	for _, entry := range w.StatusAdjectives {
		table[entry.Status] = entry.Adjective
	}
	return table
}

func fromProperties() (*AppConfig, error) {
	cfg := &AppConfig{
		Name: resource.GetString("app.name"),
		Server: ServerConfig{
			Port:            resource.GetInt("app.server.port"),
			ContextPath:     resource.GetString("app.server.context-path"),
			ShutdownTimeout: resource.GetDuration("app.server.shutdown-timeout"),
		},
		Telegram: TelegramConfig{
			Token:            resource.GetString("app.telegram.token"),
			APIEndpoint:      resource.GetString("app.telegram.api-endpoint"),
			Mode:             resource.GetString("app.telegram.mode"),
			PollTimeout:      resource.GetInt("app.telegram.poll-timeout"),
			HandlerTimeout:   resource.GetDuration("app.telegram.handler-timeout"),
			WebhookURL:       resource.GetString("app.telegram.webhook-url"),
			WebhookSecret:    resource.GetString("app.telegram.webhook-secret"),
			Debug:            resource.GetBool("app.telegram.debug"),
			GreetingCommands: resource.GetStringSlice("app.telegram.greeting-commands"),
		},
		Weather: WeatherConfig{
			BaseURL:          resource.GetString("app.weather.base-url"),
			APIKey:           resource.GetString("app.weather.api-key"),
			Language:         resource.GetString("app.weather.language"),
			Units:            resource.GetString("app.weather.units"),
			RequestTimeout:   resource.GetDuration("app.weather.request-timeout"),
			MaxRetries:       resource.GetInt("app.weather.max-retries"),
			ForecastWindow:   resource.GetInt("app.weather.forecast-window"),
			TimezoneFallback: resource.GetString("app.weather.timezone-fallback"),
			CircuitBreaker: CircuitBreakerConfig{
				MaxRequests:         uint32(resource.GetInt("app.weather.circuit-breaker.max-requests")),
				Interval:            resource.GetDuration("app.weather.circuit-breaker.interval"),
				Timeout:             resource.GetDuration("app.weather.circuit-breaker.timeout"),
				ConsecutiveFailures: uint32(resource.GetInt("app.weather.circuit-breaker.consecutive-failures")),
			},
		},
		Redis: RedisConfig{
			Enabled:            resource.GetBool("app.redis.enabled"),
			Host:               resource.GetString("app.redis.host"),
			Port:               resource.GetInt("app.redis.port"),
			Password:           resource.GetString("app.redis.password"),
			Database:           resource.GetInt("app.redis.database"),
			Namespace:          resource.GetString("app.redis.namespace"),
			RateLimitPerMinute: resource.GetInt("app.redis.rate-limit-per-minute"),
			PollerLockTTL:      resource.GetDuration("app.redis.poller-lock-ttl"),
			PollerLockRefresh:  resource.GetDuration("app.redis.poller-lock-refresh"),
		},
		Events: EventsConfig{
			Enabled:   resource.GetBool("app.events.enabled"),
			QueueName: resource.GetString("app.events.queue-name"),
		},
		Cloud: CloudConfig{
			AWSRegion:          resource.GetString("app.cloud.aws-region"),
			AWSEndpoint:        resource.GetString("app.cloud.aws-endpoint"),
			AWSAccessKeyID:     resource.GetString("app.cloud.aws-access-key-id"),
			AWSSecretAccessKey: resource.GetString("app.cloud.aws-secret-access-key"),
		},
		Health: HealthConfig{
			Cron: resource.GetString("app.health.cron"),
		},
	}

	if resource.IsSet("app.weather.status-adjectives") {
		if err := resource.UnmarshalKey("app.weather.status-adjectives", &cfg.Weather.StatusAdjectives); err != nil {
			return nil, fmt.Errorf("invalid app.weather.status-adjectives: %w", err)
		}
	}
	return cfg, nil
}
