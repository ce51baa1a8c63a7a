package redis

import (
	"context"
	"fmt"
	"time"

	"telegram-gateway/internal/domain/ports/adapter"
)

var _ adapter.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window counter shared by every gateway replica.
type RateLimiter struct {
	client RedisClient
	limit  int
	window time.Duration
}

func NewRateLimiter(client RedisClient, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := SendKey(key)
	count, err := r.client.IncrWindow(ctx, k, r.window)
	if err != nil {
		return false, err
	}
	return count <= int64(r.limit), nil
}

func SendKey(chat string) string {
	return fmt.Sprintf("rate_limit:send:%s", chat)
}
