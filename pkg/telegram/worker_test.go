package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// scriptedClient returns the queued batches in order, then blocks until cancel.
type scriptedClient struct {
	mu       sync.Mutex
	batches  [][]tgbotapi.Update
	errs     []error
	offsets  []int
	timeouts []int
	cancel   context.CancelFunc
}

func (c *scriptedClient) GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offsets = append(c.offsets, config.Offset)
	c.timeouts = append(c.timeouts, config.Timeout)

	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		return nil, err
	}
	if len(c.batches) == 0 {
		c.cancel()
		return nil, nil
	}
	batch := c.batches[0]
	c.batches = c.batches[1:]
	return batch, nil
}

func textUpdate(id int, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			MessageID: id * 10,
			Text:      text,
			Chat:      &tgbotapi.Chat{ID: 7},
		},
	}
}

func TestWorkerProcessesSequentiallyAndAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &scriptedClient{
		batches: [][]tgbotapi.Update{
			{textUpdate(5, "Берлин"), textUpdate(6, "Киев")},
			{textUpdate(7, "/start")},
		},
		cancel: cancel,
	}

	var seen []string
	handler := HandlerFunc(func(_ context.Context, update tgbotapi.Update) error {
		seen = append(seen, update.Message.Text)
		if update.Message.Text == "Киев" {
			return errors.New("boom")
		}
		if update.Message.Text == "/start" {
			panic("unexpected")
		}
		return nil
	})

	worker, err := NewWorker(client, handler, &WorkerConfig{Timeout: 1, ErrorBackoff: time.Millisecond})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	worker.Start(ctx)

	if len(seen) != 3 || seen[0] != "Берлин" || seen[1] != "Киев" || seen[2] != "/start" {
		t.Fatalf("seen = %v", seen)
	}

	wantOffsets := []int{0, 7, 8}
	for i, want := range wantOffsets {
		if client.offsets[i] != want {
			t.Errorf("poll %d offset = %d, want %d", i, client.offsets[i], want)
		}
	}

	health := worker.HealthCheck()
	if health.Status != StatusUp {
		t.Errorf("status = %s", health.Status)
	}
	if health.Details["processed"] != "1" || health.Details["failed"] != "2" {
		t.Errorf("details = %v", health.Details)
	}
}

func TestWorkerStopsMidBatchAndConfirmsHandledUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &scriptedClient{
		batches: [][]tgbotapi.Update{
			{textUpdate(10, "Берлин"), textUpdate(11, "Киев"), textUpdate(12, "Париж")},
		},
		cancel: cancel,
	}

	var seen []string
	var handlerErrs []error
	handler := HandlerFunc(func(ctx context.Context, update tgbotapi.Update) error {
		seen = append(seen, update.Message.Text)
		cancel()
		handlerErrs = append(handlerErrs, ctx.Err())
		if _, ok := ctx.Deadline(); !ok {
			t.Error("handler context has no deadline")
		}
		return nil
	})

	worker, err := NewWorker(client, handler, &WorkerConfig{Timeout: 50, HandlerTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	worker.Start(ctx)

	if len(seen) != 1 || seen[0] != "Берлин" {
		t.Fatalf("seen = %v, want only the update in progress", seen)
	}
	if handlerErrs[0] != nil {
		t.Errorf("handler context err = %v, want it to outlive the poll context", handlerErrs[0])
	}

	if len(client.offsets) != 2 {
		t.Fatalf("polls = %v, want the batch poll and one confirmation", client.offsets)
	}
	if client.offsets[1] != 11 || client.timeouts[1] != 0 {
		t.Errorf("confirmation offset = %d timeout = %d, want 11 and 0", client.offsets[1], client.timeouts[1])
	}
	if client.timeouts[0] != 50 {
		t.Errorf("poll timeout = %d", client.timeouts[0])
	}
}

func TestWorkerReportsPollFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &scriptedClient{errs: []error{errors.New("unauthorized")}}
	client.cancel = cancel

	worker, err := NewWorker(client, HandlerFunc(func(context.Context, tgbotapi.Update) error { return nil }),
		&WorkerConfig{ErrorBackoff: time.Millisecond})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}

	if got := worker.HealthCheck().Status; got != StatusUnknown {
		t.Fatalf("status before start = %s", got)
	}

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	// The second poll succeeded with an empty batch and cancelled the context.
	if got := worker.HealthCheck().Status; got != StatusUp {
		t.Fatalf("status = %s", got)
	}
	if len(client.offsets) != 2 {
		t.Fatalf("polls = %d, want 2", len(client.offsets))
	}
}

func TestNewWorkerValidation(t *testing.T) {
	handler := HandlerFunc(func(context.Context, tgbotapi.Update) error { return nil })

	if _, err := NewWorker(nil, handler, nil); err == nil {
		t.Error("expected error for nil client")
	}
	if _, err := NewWorker(&scriptedClient{}, nil, nil); err == nil {
		t.Error("expected error for nil handler")
	}
	if _, err := NewWorker(&scriptedClient{}, handler, &WorkerConfig{Limit: 101}); err == nil {
		t.Error("expected error for limit above 100")
	}
	if _, err := NewWorker(&scriptedClient{}, handler, &WorkerConfig{HandlerTimeout: -time.Second}); err == nil {
		t.Error("expected error for negative handler timeout")
	}
}
