package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/rueidis"
)

// RedisLimiter shares the sliding window across instances using a Redis
// sorted set per key (member = admission timestamp). It is the backend to
// use when the gateway runs with more than one replica.
type RedisLimiter struct {
	client rueidis.Client
	cfg    Config
	now    func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter connects to Redis and returns a shared-state limiter.
func NewRedisLimiter(addr string, cfg Config) (*RedisLimiter, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create redis client", goerr.V("addr", addr))
	}

	return &RedisLimiter{client: client, cfg: cfg, now: time.Now}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	rkey := "ratelimit:" + key
	now := l.now()
	windowStart := now.Add(-l.cfg.Window).UnixMicro()

	prune := l.client.B().Zremrangebyscore().Key(rkey).
		Min("0").Max(strconv.FormatInt(windowStart, 10)).Build()
	if err := l.client.Do(ctx, prune).Error(); err != nil {
		return false, goerr.Wrap(err, "failed to prune rate limit window", goerr.V("key", key))
	}

	count, err := l.client.Do(ctx, l.client.B().Zcard().Key(rkey).Build()).AsInt64()
	if err != nil {
		return false, goerr.Wrap(err, "failed to count rate limit window", goerr.V("key", key))
	}
	if count >= int64(l.cfg.Limit) {
		return false, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	add := l.client.B().Zadd().Key(rkey).
		ScoreMember().ScoreMember(float64(now.UnixMicro()), member).Build()
	if err := l.client.Do(ctx, add).Error(); err != nil {
		return false, goerr.Wrap(err, "failed to record admission", goerr.V("key", key))
	}

	// Let idle buckets disappear on their own
	expire := l.client.B().Expire().Key(rkey).
		Seconds(int64(l.cfg.Window.Seconds()) + 1).Build()
	if err := l.client.Do(ctx, expire).Error(); err != nil {
		return false, goerr.Wrap(err, "failed to set bucket expiry", goerr.V("key", key))
	}

	return true, nil
}

// Close shuts down the underlying Redis client.
func (l *RedisLimiter) Close() {
	l.client.Close()
}
