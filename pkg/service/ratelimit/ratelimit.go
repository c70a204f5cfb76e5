package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Limiter is a per-key sliding-window request gate. Allow reports whether
// one more request from the given key may proceed right now; an admitted
// request is counted, a rejected one is not.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config bounds admissions to Limit requests per rolling Window.
type Config struct {
	Limit  int
	Window time.Duration
}

// ClientKey derives the rate-limit bucket key for a request: the first
// entry of X-Forwarded-For, or a loopback placeholder when absent. Callers
// behind a shared proxy without that header collapse into one bucket.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return "127.0.0.1"
}
