package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "revenue:preview:"

// RedisLimiter keeps one counter per client that expires with the window.
type RedisLimiter struct {
	rdb *redis.Client
	cfg Config
}

// NewRedisClient connects and pings.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewRedisLimiter(rdb *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, cfg: cfg.withDefaults()}
}

// consumeScript increments the counter and undoes the increment when it
// passes the limit. A counter without a TTL gets one, so a key can never
// outlive its window.
var consumeScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
if n > tonumber(ARGV[2]) then
	redis.call('DECR', KEYS[1])
	return -1
end
return n
`)

var releaseScript = redis.NewScript(`
local n = tonumber(redis.call('GET', KEYS[1]) or '0')
if n > 0 then
	return redis.call('DECR', KEYS[1])
end
return 0
`)

func (l *RedisLimiter) Consume(ctx context.Context, clientIP string) (Decision, error) {
	keys := []string{redisKeyPrefix + Key(clientIP)}
	n, err := consumeScript.Run(ctx, l.rdb, keys, l.cfg.Window.Milliseconds(), l.cfg.Limit).Int()
	if err != nil {
		return Decision{}, fmt.Errorf("consume preview: %w", err)
	}
	if n < 0 {
		return denied(l.cfg.Limit), nil
	}
	return allowed(l.cfg.Limit, n), nil
}

func (l *RedisLimiter) Release(ctx context.Context, clientIP string) error {
	keys := []string{redisKeyPrefix + Key(clientIP)}
	if err := releaseScript.Run(ctx, l.rdb, keys).Err(); err != nil {
		return fmt.Errorf("release preview: %w", err)
	}
	return nil
}
