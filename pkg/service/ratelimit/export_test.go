package ratelimit

import "time"

// SetNow replaces the limiter clock for tests.
func (l *MemoryLimiter) SetNow(now func() time.Time) {
	l.now = now
}
