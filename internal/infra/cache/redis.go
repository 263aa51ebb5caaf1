package cache

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"collabnote/config"

	"github.com/redis/go-redis/v9"
)

// viewPrefix namespaces cached presentation views. A view key is
// viewPrefix + path, e.g. "view:/notes/user/3?page=1&limit=10".
const viewPrefix = "view:"

type RedisCache struct {
	client *redis.Client
}

func New(cfg *config.Config) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: rdb}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *RedisCache) SetWithRandomTTL(ctx context.Context, key string, value interface{}, baseTTL time.Duration) error {
	return c.client.Set(ctx, key, value, jitterTTL(baseTTL)).Err()
}

// jitterTTL spreads expirations by ±10% so cached views do not expire together.
func jitterTTL(baseTTL time.Duration) time.Duration {
	if baseTTL < 10 {
		return baseTTL
	}
	jitter := time.Duration(rand.Int63n(int64(baseTTL/5)) - int64(baseTTL/10))
	actualTTL := baseTTL + jitter
	if actualTTL <= 0 {
		actualTTL = baseTTL
	}
	return actualTTL
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// GetView returns the cached rendering of path.
func (c *RedisCache) GetView(ctx context.Context, path string) (string, error) {
	return c.Get(ctx, viewPrefix+path)
}

// SetView caches the rendering of path with a jittered TTL.
func (c *RedisCache) SetView(ctx context.Context, path string, value interface{}, ttl time.Duration) error {
	return c.SetWithRandomTTL(ctx, viewPrefix+path, value, ttl)
}

// Revalidate drops every cached view whose path starts with path, so the
// next read refetches it.
func (c *RedisCache) Revalidate(ctx context.Context, path string) error {
	return c.ClearCacheByPattern(ctx, viewPrefix+path+"*")
}

func (c *RedisCache) ClearCacheByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		// SCAN in batches of 100 instead of KEYS, which blocks the server
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			pipe.Del(ctx, keys...)
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *RedisCache) AllowRequest(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	// INCR, and set the expiry only on the first hit of the window
	const script = `
        local current = redis.call("INCR", KEYS[1])
        if tonumber(current) == 1 then
            redis.call("EXPIRE", KEYS[1], ARGV[1])
        end
        return current
    `

	count, err := c.client.Eval(ctx, script, []string{key}, int(window.Seconds())).Int()
	if err != nil {
		return true, err
	}

	return count <= limit, nil
}
