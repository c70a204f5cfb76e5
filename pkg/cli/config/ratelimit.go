package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/service/ratelimit"
	"github.com/solveway/eli/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// RateLimit holds CLI flags for the chat rate limiter
type RateLimit struct {
	backend   string
	redisAddr string
	limit     int
	window    time.Duration
}

// Flags returns CLI flags for rate limiter configuration
func (r *RateLimit) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ratelimit-backend",
			Usage:       "Rate limiter backend (memory or redis)",
			Value:       "memory",
			Category:    "Rate limit",
			Sources:     cli.EnvVars("ELI_RATELIMIT_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "ratelimit-redis-addr",
			Usage:       "Redis address for the shared rate limiter (host:port)",
			Category:    "Rate limit",
			Sources:     cli.EnvVars("ELI_RATELIMIT_REDIS_ADDR"),
			Destination: &r.redisAddr,
		},
		&cli.IntFlag{
			Name:        "ratelimit-limit",
			Usage:       "Admissions per client per window",
			Value:       10,
			Category:    "Rate limit",
			Sources:     cli.EnvVars("ELI_RATELIMIT_LIMIT"),
			Destination: &r.limit,
		},
		&cli.DurationFlag{
			Name:        "ratelimit-window",
			Usage:       "Rolling window length",
			Value:       time.Minute,
			Category:    "Rate limit",
			Sources:     cli.EnvVars("ELI_RATELIMIT_WINDOW"),
			Destination: &r.window,
		},
	}
}

// Configure builds the limiter. The returned closer releases the Redis
// client when that backend is selected.
func (r *RateLimit) Configure() (ratelimit.Limiter, func(), error) {
	cfg := ratelimit.Config{
		Limit:  r.limit,
		Window: r.window,
	}

	switch r.backend {
	case "memory":
		return ratelimit.NewMemoryLimiter(cfg), func() {}, nil

	case "redis":
		if r.redisAddr == "" {
			return nil, nil, goerr.New("ratelimit-redis-addr is required when using the redis backend")
		}
		limiter, err := ratelimit.NewRedisLimiter(r.redisAddr, cfg)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize redis rate limiter")
		}
		logging.Default().Info("Using Redis rate limiter", "addr", r.redisAddr)
		return limiter, limiter.Close, nil

	default:
		return nil, nil, goerr.New("invalid rate limiter backend", goerr.V("backend", r.backend))
	}
}
