package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weather-bot/pkg/log"
)

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, update tgbotapi.Update) error

// HandleUpdate implements the Handler interface for HandlerFunc
func (f HandlerFunc) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	return f(ctx, update)
}

// Handler processes a single update
type Handler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// UpdatesClient is the part of *tgbotapi.BotAPI the worker needs
type UpdatesClient interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// HealthStatus represents the worker health status
type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// HealthCheck is a snapshot of the worker state
type HealthCheck struct {
	Status  HealthStatus
	Details map[string]string
}

// WorkerConfig defines the configuration options for a Worker
type WorkerConfig struct {
	// Timeout is the long-polling timeout in seconds
	Timeout int
	// Limit caps updates per poll (1-100)
	Limit int
	// AllowedUpdates restricts update kinds; empty keeps the bot's server-side setting
	AllowedUpdates []string
	// ErrorBackoff is the pause after a failed poll
	ErrorBackoff time.Duration
	// HandlerTimeout bounds one update; handling outlives cancellation of the poll context
	HandlerTimeout time.Duration
}

// Worker long-polls getUpdates and hands every update to the handler, one at a time,
// in the order Telegram delivered them.
type Worker struct {
	client  UpdatesClient
	handler Handler
	config  WorkerConfig

	offset    atomic.Int64
	running   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64

	mu         sync.RWMutex
	lastPollAt time.Time
	lastErr    error
}

// NewWorker creates and returns a new Worker.
//
// Zero config fields default to Timeout 60, Limit 100, ErrorBackoff 3s and HandlerTimeout 30s.
func NewWorker(client UpdatesClient, handler Handler, config *WorkerConfig) (*Worker, error) {
	if client == nil {
		return nil, errors.New("updates client is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	cfg := WorkerConfig{Timeout: 60, Limit: 100, ErrorBackoff: 3 * time.Second, HandlerTimeout: 30 * time.Second}
	if config != nil {
		if config.Timeout != 0 {
			cfg.Timeout = config.Timeout
		}
		if config.Limit != 0 {
			cfg.Limit = config.Limit
		}
		if config.ErrorBackoff != 0 {
			cfg.ErrorBackoff = config.ErrorBackoff
		}
		if config.HandlerTimeout != 0 {
			cfg.HandlerTimeout = config.HandlerTimeout
		}
		cfg.AllowedUpdates = config.AllowedUpdates
	}

	if cfg.Timeout < 0 {
		return nil, errors.New("timeout must be non-negative")
	}
	if cfg.Limit < 1 || cfg.Limit > 100 {
		return nil, errors.New("limit must be between 1 and 100")
	}
	if cfg.HandlerTimeout < 0 {
		return nil, errors.New("handler timeout must be non-negative")
	}

	return &Worker{client: client, handler: handler, config: cfg}, nil
}

// Start polls until ctx is cancelled. An update already being handled finishes
// first; the rest of its batch is left for the next poller. Before returning,
// the offset of the last handled update is confirmed to Telegram.
func (w *Worker) Start(ctx context.Context) {
	w.running.Store(true)
	defer w.running.Store(false)

	confirmed := w.offset.Load()
	defer func() { w.confirm(confirmed) }()

	for {
		if ctx.Err() != nil {
			return
		}

		config := w.updateConfig()
		confirmed = int64(config.Offset)
		updates, err := w.client.GetUpdates(config)
		w.recordPoll(err)
		if err != nil {
			log.Errorf("failed to get telegram updates: %v", err)
			if !sleep(ctx, w.config.ErrorBackoff) {
				return
			}
			continue
		}

		for _, update := range updates {
			if ctx.Err() != nil {
				break
			}
			if next := int64(update.UpdateID) + 1; next > w.offset.Load() {
				w.offset.Store(next)
			}
			w.handleUpdate(ctx, update)
		}
	}
}

// confirm sends the current offset with a zero timeout so Telegram drops the
// updates handled since the last poll.
func (w *Worker) confirm(sent int64) {
	offset := w.offset.Load()
	if offset <= sent {
		return
	}

	config := tgbotapi.NewUpdate(int(offset))
	config.Timeout = 0
	config.Limit = 1
	config.AllowedUpdates = w.config.AllowedUpdates
	if _, err := w.client.GetUpdates(config); err != nil {
		log.Errorf("failed to confirm telegram updates before offset %d: %v", offset, err)
	}
}

func (w *Worker) updateConfig() tgbotapi.UpdateConfig {
	cfg := tgbotapi.NewUpdate(int(w.offset.Load()))
	cfg.Timeout = w.config.Timeout
	cfg.Limit = w.config.Limit
	cfg.AllowedUpdates = w.config.AllowedUpdates
	return cfg
}

func (w *Worker) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.config.HandlerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			w.failed.Add(1)
			log.Errorf("panic while handling update %d: %v", update.UpdateID, r)
		}
	}()

	if err := w.handler.HandleUpdate(ctx, update); err != nil {
		w.failed.Add(1)
		log.Errorf("error processing update %d: %v", update.UpdateID, err)
		return
	}
	w.processed.Add(1)
}

func (w *Worker) recordPoll(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastPollAt = time.Now()
	w.lastErr = err
}

// HealthCheck reports UNKNOWN before the first poll, DOWN after a failed poll and UP otherwise.
func (w *Worker) HealthCheck() HealthCheck {
	w.mu.RLock()
	lastPollAt, lastErr := w.lastPollAt, w.lastErr
	w.mu.RUnlock()

	details := map[string]string{
		"running":   strconv.FormatBool(w.running.Load()),
		"processed": strconv.FormatInt(w.processed.Load(), 10),
		"failed":    strconv.FormatInt(w.failed.Load(), 10),
		"offset":    strconv.FormatInt(w.offset.Load(), 10),
	}

	switch {
	case lastPollAt.IsZero():
		return HealthCheck{Status: StatusUnknown, Details: details}
	case lastErr != nil:
		details["last_poll_at"] = lastPollAt.Format(time.RFC3339)
		details["error"] = lastErr.Error()
		return HealthCheck{Status: StatusDown, Details: details}
	default:
		details["last_poll_at"] = lastPollAt.Format(time.RFC3339)
		return HealthCheck{Status: StatusUp, Details: details}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// String describes the worker for logs
func (w *Worker) String() string {
	return fmt.Sprintf("telegram worker (timeout=%ds, limit=%d)", w.config.Timeout, w.config.Limit)
}
