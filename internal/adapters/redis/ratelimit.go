package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafaelleal24/stockledger/internal/adapters/http/middleware"
)

// fixed window counter; returns the count and the milliseconds left in the window
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`)

type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) middleware.RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (middleware.RateDecision, error) {
	redisKey := namespaced("ratelimit:" + key)
	values, err := rateLimitScript.Run(ctx, r.client.rdb, []string{redisKey}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return middleware.RateDecision{}, err
	}

	count, ttl := int(values[0]), values[1]
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	if ttl < 0 {
		ttl = window.Milliseconds()
	}
	return middleware.RateDecision{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetIn:   time.Duration(ttl) * time.Millisecond,
	}, nil
}
