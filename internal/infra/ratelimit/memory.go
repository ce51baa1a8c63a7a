package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"telegram-gateway/internal/domain/ports/adapter"
)

var _ adapter.RateLimiter = (*Memory)(nil)

const idleTTL = 10 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Memory keeps one token bucket per key in process memory.
// Idle buckets are swept once the map grows past maxKeys.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	maxKeys int
	now     func() time.Time
}

func NewMemory(perSecond float64, burst int) *Memory {
	if burst <= 0 {
		burst = 1
	}
	return &Memory{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		maxKeys: 10000,
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		if len(m.buckets) >= m.maxKeys {
			m.sweep(now)
		}
		b = &bucket{lim: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1), nil
}

func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(m.buckets, k)
		}
	}
}

// Len reports how many keys are tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

// Nop allows everything. Used when ratelimit.backend is none.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, error) { return true, nil }
