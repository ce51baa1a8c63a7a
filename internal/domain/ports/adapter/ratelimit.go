package adapter

import "context"

// RateLimiter decides whether an outbound send keyed by key may proceed now.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
