package aws

import (
	"context"
	"sync"
	"time"

	"weather-bot/internal/domain/gateway/queue"
	"weather-bot/internal/domain/model"
	"weather-bot/pkg/sqs"
)

// SQSPublisherAdapter adapts the pkg/sqs.Sender to the domain queue.QueryEventPublisher interface
type SQSPublisherAdapter struct {
	sqsSender *sqs.Sender
	queueName string

	mu          sync.RWMutex
	lastErr     error
	lastPublish time.Time
}

var _ queue.QueryEventPublisher = (*SQSPublisherAdapter)(nil)

// NewSQSPublisherAdapter creates a publisher that sends every event to queueName
func NewSQSPublisherAdapter(sqsClient sqs.SQSClient, queueName string) *SQSPublisherAdapter {
	return &SQSPublisherAdapter{
		sqsSender: sqs.NewSender(sqsClient),
		queueName: queueName,
	}
}

// Publish sends the event as JSON with the outcome as a message attribute
func (adapter *SQSPublisherAdapter) Publish(ctx context.Context, event model.QueryEvent) error {
	_, err := adapter.sqsSender.SendMessage(ctx, adapter.queueName, event, map[string]string{
		"outcome": string(event.Outcome),
	})

	adapter.mu.Lock()
	adapter.lastErr = err
	adapter.lastPublish = time.Now()
	adapter.mu.Unlock()

	return err
}

// Health reports the result of the most recent publish
func (adapter *SQSPublisherAdapter) Health(context.Context) model.ComponentHealthStatus {
	adapter.mu.RLock()
	defer adapter.mu.RUnlock()

	details := map[string]string{"queue": adapter.queueName}
	if adapter.lastPublish.IsZero() {
		details["message"] = "No events published yet"
		return model.ComponentHealthStatus{Status: model.StatusUp, Details: details}
	}

	details["last_publish_at"] = adapter.lastPublish.Format(time.RFC3339)
	if adapter.lastErr != nil {
		details["error"] = adapter.lastErr.Error()
		return model.ComponentHealthStatus{Status: model.StatusDown, Details: details}
	}
	return model.ComponentHealthStatus{Status: model.StatusUp, Details: details}
}
