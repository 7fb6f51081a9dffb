package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"weather-bot/configs"
	"weather-bot/internal/application/controller"
	"weather-bot/internal/application/middleware"
	"weather-bot/internal/application/processor"
	"weather-bot/internal/application/schedule"
	"weather-bot/internal/domain/gateway/api"
	"weather-bot/internal/domain/gateway/cache"
	"weather-bot/internal/domain/gateway/chat"
	"weather-bot/internal/domain/gateway/limiter"
	"weather-bot/internal/domain/gateway/queue"
	"weather-bot/internal/domain/gateway/timezone"
	"weather-bot/internal/domain/usecase/health"
	"weather-bot/internal/domain/usecase/weather"
	"weather-bot/internal/infra/aws"
	infratelegram "weather-bot/internal/infra/telegram"
	"weather-bot/pkg/http"
	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
	"weather-bot/pkg/redis"
	"weather-bot/pkg/telegram"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	log.SetLevel(os.Getenv("LOG_LEVEL"))
	defer log.Sync()

	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init infra
	redisClient := newRedisClient(cfg.Redis)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	bot, err := infratelegram.NewBotAPI(infratelegram.BotConfig{
		Token:       cfg.Telegram.Token,
		APIEndpoint: cfg.Telegram.APIEndpoint,
		Debug:       cfg.Telegram.Debug,
		HTTPClient:  &stdhttp.Client{Timeout: time.Duration(cfg.Telegram.PollTimeout)*time.Second + 15*time.Second},
	})
	if err != nil {
		log.Fatal("Failed to start telegram client", zap.Error(err))
	}

	resolver, err := timezone.NewResolver()
	if err != nil {
		log.Fatal("Failed to load timezone finder", zap.Error(err))
	}

	// Init Gateways
	weatherGateway := newWeatherGateway(cfg.Weather)
	publisher := newPublisher(ctx, cfg)
	chatLimiter := newChatLimiter(redisClient, cfg.Redis)
	chatHealthGateway := chat.NewChatHealthGateway(cfg.Telegram.Mode)
	cacheHealthGateway := cache.NewRedisHealthCacheGateway(redisClient)

	// Init UseCase
	fallback, err := weather.ParseTimezoneFallback(cfg.Weather.TimezoneFallback)
	if err != nil {
		log.Fatal("Invalid timezone fallback", zap.Error(err))
	}
	weatherUseCase := weather.NewWeatherUseCase(weatherGateway, resolver, weather.Options{
		ForecastWindow:   cfg.Weather.ForecastWindow,
		TimezoneFallback: fallback,
		StatusAdjectives: cfg.Weather.StatusAdjectiveTable(),
	})
	healthUseCase := health.NewHealthUseCase(weatherGateway, cacheHealthGateway, publisher, chatHealthGateway)

	// Init Processor
	chatProcessor := processor.NewChatProcessor(weatherUseCase, msg.Default(), infratelegram.NewBotSenderAdapter(bot), processor.ChatProcessorOptions{
		GreetingCommands: cfg.Telegram.GreetingCommands,
		Limiter:          chatLimiter,
		Publisher:        publisher,
	})

	// Init Controller
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupRequestLogger(e)
	apiGroup := e.Group(cfg.Server.ContextPath)

	controller.NewHealthController(apiGroup, healthUseCase).InitHealthRoutes()

	var wg sync.WaitGroup
	switch cfg.Telegram.Mode {
	case "webhook":
		controller.NewWebhookController(apiGroup, cfg.Telegram.WebhookSecret, cfg.Telegram.HandlerTimeout, chatProcessor).InitWebhookRoutes()
		webhookURL := infratelegram.WebhookURL(cfg.Telegram.WebhookURL, cfg.Server.ContextPath, cfg.Telegram.WebhookSecret)
		if err := infratelegram.RegisterWebhook(bot, webhookURL); err != nil {
			log.Fatal("Failed to register webhook", zap.Error(err))
		}
	default:
		if err := infratelegram.DeleteWebhook(bot); err != nil {
			log.Fatal("Failed to switch telegram to polling", zap.Error(err))
		}
		poller := newChatPoller(bot, chatProcessor, redisClient, chatHealthGateway, cfg)
		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Run(ctx)
		}()
	}

	// Init Schedule
	healthScheduler := schedule.NewHealthScheduler(healthUseCase, cfg.Health.Cron)
	if err := healthScheduler.InitHealthScheduleTasks(); err != nil {
		log.Fatal("Failed to start health scheduler", zap.Error(err))
	}

	// Start Routes
	go func() {
		if err := e.Start(":" + strconv.Itoa(cfg.Server.Port)); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	log.Info(msg.GetMessage("app.started", cfg.Telegram.Mode))

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	healthScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.Server))
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	wg.Wait()

	log.Info(msg.GetMessage("app.stopped"))
}

func newRedisClient(cfg configs.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client, err := redis.NewClient(redis.NewRedisConfig().
		WithHost(cfg.Host).
		WithPort(cfg.Port).
		WithPassword(cfg.Password).
		WithDatabase(cfg.Database))
	if err != nil {
		log.Fatal("Failed to create redis client", zap.Error(err))
	}
	return client
}

func newWeatherGateway(cfg configs.WeatherConfig) api.WeatherGateway {
	clientOptions := http.ClientOptions{ReadTimeout: cfg.RequestTimeout}
	if cfg.MaxRetries > 0 {
		clientOptions.Backoff = http.NewBackoffConfig(cfg.MaxRetries)
	}

	return api.NewOpenWeatherGateway(api.OpenWeatherConfig{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Language: cfg.Language,
		Units:    cfg.Units,
		Breaker: api.BreakerConfig{
			MaxRequests:         cfg.CircuitBreaker.MaxRequests,
			Interval:            cfg.CircuitBreaker.Interval,
			Timeout:             cfg.CircuitBreaker.Timeout,
			ConsecutiveFailures: cfg.CircuitBreaker.ConsecutiveFailures,
		},
	}, clientOptions)
}

func newPublisher(ctx context.Context, cfg *configs.AppConfig) queue.QueryEventPublisher {
	if !cfg.Events.Enabled {
		return queue.NewNoopPublisher()
	}

	awsConfig, err := aws.LoadConfig(ctx, aws.CloudConfig{
		Region:          cfg.Cloud.AWSRegion,
		Endpoint:        cfg.Cloud.AWSEndpoint,
		AccessKeyID:     cfg.Cloud.AWSAccessKeyID,
		SecretAccessKey: cfg.Cloud.AWSSecretAccessKey,
	})
	if err != nil {
		log.Fatal("Failed to configure AWS", zap.Error(err))
	}
	return aws.NewSQSPublisherAdapter(aws.NewSqsClient(awsConfig, cfg.Cloud.AWSEndpoint), cfg.Events.QueueName)
}

func newChatLimiter(client *redis.Client, cfg configs.RedisConfig) limiter.ChatLimiter {
	if client == nil || cfg.RateLimitPerMinute <= 0 {
		return limiter.NewUnlimited()
	}

	chatLimiter, err := limiter.NewRedisChatLimiter(client.GetClient(), cfg.Namespace, cfg.RateLimitPerMinute)
	if err != nil {
		log.Fatal("Failed to create chat rate limiter", zap.Error(err))
	}
	return chatLimiter
}

func newChatPoller(bot *tgbotapi.BotAPI, handler telegram.Handler, client *redis.Client, healthGateway chat.HealthGateway, cfg *configs.AppConfig) *processor.ChatPoller {
	worker, err := telegram.NewWorker(bot, handler, &telegram.WorkerConfig{
		Timeout:        cfg.Telegram.PollTimeout,
		AllowedUpdates: []string{"message"},
		HandlerTimeout: cfg.Telegram.HandlerTimeout,
	})
	if err != nil {
		log.Fatal("Failed to create telegram worker", zap.Error(err))
	}

	var lease processor.Lease
	if client != nil {
		lease = redis.NewLeaseLock(client.GetClient(), "telegram-poller", cfg.Redis.PollerLockTTL, cfg.Redis.PollerLockRefresh, cfg.Redis.Namespace)
	}
	return processor.NewChatPoller(worker, lease, healthGateway)
}

func shutdownTimeout(cfg configs.ServerConfig) time.Duration {
	if cfg.ShutdownTimeout > 0 {
		return cfg.ShutdownTimeout
	}
	return 10 * time.Second
}
