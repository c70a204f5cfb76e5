package config

import "time"

// NewRateLimitForTest creates a RateLimit config for testing purposes
func NewRateLimitForTest(backend, redisAddr string, limit int, window time.Duration) *RateLimit {
	return &RateLimit{
		backend:   backend,
		redisAddr: redisAddr,
		limit:     limit,
		window:    window,
	}
}
