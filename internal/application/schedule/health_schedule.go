package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weather-bot/internal/domain/model"
	"weather-bot/internal/domain/usecase/health"
	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
)

const healthCheckTimeout = 10 * time.Second

// HealthScheduler periodically runs the health check and warns when something is DOWN
type HealthScheduler struct {
	cron           *cron.Cron
	useCase        health.UseCase
	cronExpression string
}

// NewHealthScheduler creates a health scheduler; an empty expression defaults to every minute
func NewHealthScheduler(useCase health.UseCase, cronExpression string) *HealthScheduler {
	if cronExpression == "" {
		cronExpression = "@every 1m"
	}
	return &HealthScheduler{
		cron:           cron.New(),
		useCase:        useCase,
		cronExpression: cronExpression,
	}
}

// InitHealthScheduleTasks registers the check and starts cron
func (s *HealthScheduler) InitHealthScheduleTasks() error {
	if _, err := s.cron.AddFunc(s.cronExpression, s.ExecuteScheduledTask); err != nil {
		return err
	}

	s.cron.Start()
	log.Infof("Health scheduler started with cron expression: %s", s.cronExpression)
	return nil
}

// ExecuteScheduledTask runs one health check
func (s *HealthScheduler) ExecuteScheduledTask() {
	requestID := uuid.New().String()

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	response := s.useCase.CheckHealth(ctx)
	if response.Status != model.StatusDown {
		log.Debug("Scheduled health check passed", zap.String("request_id", requestID))
		return
	}

	log.Warn(msg.GetMessage("log.health-down", downComponents(response)),
		zap.String("request_id", requestID),
		zap.Any("health", response),
	)
}

// Stop gracefully stops the scheduler
func (s *HealthScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

func downComponents(response model.HealthResponse) []string {
	components := map[string]model.ComponentHealthStatus{
		"provider": response.Provider,
		"redis":    response.Redis,
		"events":   response.Events,
		"chat":     response.Chat,
	}

	var down []string
	for _, name := range []string{"provider", "redis", "events", "chat"} {
		if components[name].Status == model.StatusDown {
			down = append(down, name)
		}
	}
	return down
}
