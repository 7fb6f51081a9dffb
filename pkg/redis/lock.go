package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrLockNotHeld is returned when the key exists but belongs to another owner.
var ErrLockNotHeld = errors.New("lock was not held by this client")

const (
	unlockScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	refreshScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
)

// LockOptions represents options for distributed locking
type LockOptions struct {
	// TTL is the lock expiration time
	TTL time.Duration
	// RetryDelay is the delay between acquisition attempts
	RetryDelay time.Duration
	// MaxRetries bounds acquisition attempts; a negative value retries until the context ends
	MaxRetries int
	// RefreshInterval is the interval used by AutoRefresh
	RefreshInterval time.Duration
	// LockNamespace prefixes the key as namespace::key
	LockNamespace string
}

// NewLockOptions creates lock options with default values
func NewLockOptions() *LockOptions {
	return &LockOptions{
		TTL:             30 * time.Second,
		RetryDelay:      100 * time.Millisecond,
		MaxRetries:      10,
		RefreshInterval: 10 * time.Second,
	}
}

// Lock represents a distributed lock owned by a single process
type Lock struct {
	client Scripter
	key    string
	value  string
	opts   *LockOptions
}

// NewLock creates a new distributed lock
func NewLock(client Scripter, key string, opts *LockOptions) *Lock {
	if opts == nil {
		opts = NewLockOptions()
	}
	return &Lock{
		client: client,
		key:    key,
		value:  uuid.New().String(),
		opts:   opts,
	}
}

// NewLeaseLock creates a lock meant to be held for a long time and kept alive with
// AutoRefresh. Lock waits until the lease becomes free or ctx ends.
func NewLeaseLock(client Scripter, key string, ttl, refreshInterval time.Duration, namespace string) *Lock {
	return NewLock(client, key, &LockOptions{
		TTL:             ttl,
		RetryDelay:      refreshInterval,
		MaxRetries:      -1,
		RefreshInterval: refreshInterval,
		LockNamespace:   namespace,
	})
}

// Key returns the namespaced key
func (l *Lock) Key() string {
	if l.opts.LockNamespace != "" {
		return l.opts.LockNamespace + "::" + l.key
	}
	return l.key
}

// Lock attempts to acquire the lock
func (l *Lock) Lock(ctx context.Context) error {
	for attempt := 0; l.opts.MaxRetries < 0 || attempt <= l.opts.MaxRetries; attempt++ {
		acquired, err := l.client.SetNX(ctx, l.Key(), l.value, l.opts.TTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if acquired {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.opts.RetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", l.opts.MaxRetries+1)
}

// Unlock releases the lock if it is still owned by this holder
func (l *Lock) Unlock(ctx context.Context) error {
	result, err := l.client.Eval(ctx, unlockScript, []string{l.Key()}, l.value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Refresh extends the lock's TTL
func (l *Lock) Refresh(ctx context.Context) error {
	result, err := l.client.Eval(ctx, refreshScript, []string{l.Key()}, l.value, l.opts.TTL.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("failed to refresh lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// IsHeld checks whether this holder currently owns the key
func (l *Lock) IsHeld(ctx context.Context) (bool, error) {
	value, err := l.client.Get(ctx, l.Key()).Result()
	if err != nil {
		if isNil(err) {
			return false, nil
		}
		return false, err
	}
	return value == l.value, nil
}

// AutoRefresh refreshes the lock every RefreshInterval until ctx ends or a refresh fails.
// The returned channel receives exactly one value: the refresh error or ctx.Err().
func (l *Lock) AutoRefresh(ctx context.Context) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(l.opts.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			case <-ticker.C:
				if err := l.Refresh(ctx); err != nil {
					errChan <- err
					return
				}
			}
		}
	}()

	return errChan
}
