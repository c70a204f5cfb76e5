package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the default in-process Limiter. State is a plain map of
// admission timestamps per key, pruned lazily on each check. It does not
// coordinate across instances, so running N replicas weakens the effective
// limit by a factor of N. That is a documented limitation of this backend,
// not a bug; use the Redis limiter for multi-instance deployments.
type MemoryLimiter struct {
	mu       sync.Mutex
	trackers map[string][]time.Time
	cfg      Config
	now      func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter creates an in-process sliding-window limiter.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		trackers: make(map[string][]time.Time),
		cfg:      cfg,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.cfg.Window)

	kept := l.trackers[key][:0]
	for _, ts := range l.trackers[key] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.cfg.Limit {
		l.trackers[key] = kept
		return false, nil
	}

	l.trackers[key] = append(kept, now)
	return true, nil
}
