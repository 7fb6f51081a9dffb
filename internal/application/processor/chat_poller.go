package processor

import (
	"context"
	"time"

	"weather-bot/internal/domain/gateway/chat"
	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
	"weather-bot/pkg/telegram"
)

// Lease is the distributed lease that elects the single polling instance.
// *redis.Lock satisfies it.
type Lease interface {
	Key() string
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	AutoRefresh(ctx context.Context) <-chan error
}

const (
	pollerWorkerName  = "updates"
	leaseRetryDelay   = 5 * time.Second
	leaseReleaseLimit = 5 * time.Second
)

// ChatPoller runs the update worker. With a lease only the holder polls, since
// Telegram rejects concurrent getUpdates calls for one bot.
type ChatPoller struct {
	worker        *telegram.Worker
	lease         Lease
	healthGateway chat.HealthGateway
	retryDelay    time.Duration
}

// NewChatPoller creates the poller; a nil lease polls unconditionally
func NewChatPoller(worker *telegram.Worker, lease Lease, healthGateway chat.HealthGateway) *ChatPoller {
	return &ChatPoller{
		worker:        worker,
		lease:         lease,
		healthGateway: healthGateway,
		retryDelay:    leaseRetryDelay,
	}
}

// Run blocks until ctx is cancelled
func (p *ChatPoller) Run(ctx context.Context) {
	p.healthGateway.RegisterWorker(pollerWorkerName, p.worker)
	defer p.healthGateway.UnregisterWorker(pollerWorkerName)

	if p.lease == nil {
		p.worker.Start(ctx)
		return
	}

	for ctx.Err() == nil {
		log.Info(msg.GetMessage("log.poller-waiting", p.lease.Key()))
		if err := p.lease.Lock(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("failed to acquire poller lease %s: %v", p.lease.Key(), err)
			if !wait(ctx, p.retryDelay) {
				return
			}
			continue
		}

		log.Info(msg.GetMessage("log.poller-acquired", p.lease.Key()))
		p.pollWhileHeld(ctx)
	}
}

// pollWhileHeld runs the worker until the lease is lost or ctx ends, then releases the lease
func (p *ChatPoller) pollWhileHeld(ctx context.Context) {
	leaseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	refreshErr := p.lease.AutoRefresh(leaseCtx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.worker.Start(leaseCtx)
	}()

	select {
	case err := <-refreshErr:
		if ctx.Err() == nil {
			log.Warn(msg.GetMessage("log.poller-lost", p.lease.Key(), err))
		}
		cancel()
		<-done
	case <-done:
	}

	releaseCtx, release := context.WithTimeout(context.Background(), leaseReleaseLimit)
	defer release()
	if err := p.lease.Unlock(releaseCtx); err != nil {
		log.Debugf("poller lease %s not released: %v", p.lease.Key(), err)
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
