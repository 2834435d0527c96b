// Package middleware holds request processing that sits between the wire
// and the command handlers.
package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/config"
	"github.com/misasha/hotel-reservation/internal/logger"
)

// limiterScript implements a token bucket in Redis. State per key: current
// tokens and last refill time; refill is computed lazily from elapsed time.
var limiterScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return allowed
`)

// RateLimiter throttles commands per client address. With limiting disabled
// or Redis unreachable it admits everything: the limiter protects the
// service, it must never take it down.
type RateLimiter struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

// NewTokenBucket builds a limiter. rdb may be nil.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) *RateLimiter {
	return &RateLimiter{cfg: cfg, rdb: rdb}
}

// Allow reports whether a command from the given client address may
// proceed. Fails open on Redis errors.
func (l *RateLimiter) Allow(ctx context.Context, clientAddr string) bool {
	if !l.cfg.Enabled || l.rdb == nil {
		return true
	}
	key := l.cfg.Prefix + ":" + clientAddr
	args := []any{
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL / time.Second),
	}
	allowed, err := limiterScript.Run(ctx, l.rdb, []string{key}, args...).Int()
	if err != nil {
		if l.cfg.Debug {
			logger.Logger.Warn("ratelimit redis error", zap.String("key", key), zap.Error(err))
		}
		return true
	}
	return allowed == 1
}
