package ratelimit

import (
	"context"
	"sync"
	"time"

	"quotecollector/internal/provider"
)

// MinInterval wraps a provider and enforces a minimum time between calls.
// A call waits until the interval has elapsed since the previous call, or
// returns early if the context is canceled.
type MinInterval struct {
	P        provider.Provider
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (m *MinInterval) Name() string { return m.P.Name() }

func (m *MinInterval) Fetch(ctx context.Context, symbol string) (provider.Quote, error) {
	if m.Interval > 0 {
		m.mu.Lock()
		wait := time.Until(m.last.Add(m.Interval))
		m.mu.Unlock()
		if wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return provider.Quote{}, ctx.Err()
			case <-t.C:
			}
		}
	}
	q, err := m.P.Fetch(ctx, symbol)
	if m.Interval > 0 {
		m.mu.Lock()
		m.last = time.Now()
		m.mu.Unlock()
	}
	return q, err
}

// Wrap applies the pacing configured for a provider. A positive
// requests-per-minute takes precedence over a minimum interval; with
// neither set p is returned unchanged.
func Wrap(p provider.Provider, maxRequestsPerMinute, burst int, minInterval time.Duration) provider.Provider {
	switch {
	case maxRequestsPerMinute > 0:
		return &TokenBucketProvider{P: p, TB: NewTokenBucket(float64(maxRequestsPerMinute)/60.0, burst)}
	case minInterval > 0:
		return &MinInterval{P: p, Interval: minInterval}
	default:
		return p
	}
}
