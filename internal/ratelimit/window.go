package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window rate limiter backed by Redis. Each minute gets
// its own counter key; the key expires shortly after the window closes.
type Limiter struct {
	client       *redis.Client
	keyPrefix    string
	maxPerWindow int
	window       time.Duration
}

// NewLimiter creates a per-minute alert rate limiter
func NewLimiter(client *redis.Client, maxPerMinute int) *Limiter {
	return &Limiter{
		client:       client,
		keyPrefix:    "alert:ratelimit",
		maxPerWindow: maxPerMinute,
		window:       1 * time.Minute,
	}
}

// AllowAlert returns true if an alert can be sent in the current window
func (l *Limiter) AllowAlert(ctx context.Context) (bool, error) {
	key := l.windowKey(time.Now())

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment window counter: %w", err)
	}

	// First increment in the window sets the expiry
	if count == 1 {
		if err := l.client.Expire(ctx, key, 2*l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to expire window counter: %w", err)
		}
	}

	return count <= int64(l.maxPerWindow), nil
}

// Remaining returns the number of alerts left in the current window
func (l *Limiter) Remaining(ctx context.Context) (int, error) {
	count, err := l.client.Get(ctx, l.windowKey(time.Now())).Int()
	if err != nil {
		if err == redis.Nil {
			return l.maxPerWindow, nil
		}
		return 0, fmt.Errorf("failed to get window counter: %w", err)
	}

	remaining := l.maxPerWindow - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// windowKey returns the counter key for the window containing t
func (l *Limiter) windowKey(t time.Time) string {
	return fmt.Sprintf("%s:%s", l.keyPrefix, t.UTC().Truncate(l.window).Format("200601021504"))
}
