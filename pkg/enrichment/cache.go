package enrichment

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores generated explanations by video id
type Cache interface {
	Get(ctx context.Context, videoID string) (string, bool, error)
	Set(ctx context.Context, videoID, analysis string) error
}

// KeyFunc maps a video id to a cache key
type KeyFunc func(videoID string) string

type redisCache struct {
	client *redis.Client
	key    KeyFunc
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. A nil client yields a no-op cache.
func NewRedisCache(client *redis.Client, key KeyFunc, ttl time.Duration) Cache {
	if client == nil {
		return NoopCache{}
	}

	if key == nil {
		key = func(videoID string) string { return videoID }
	}

	return &redisCache{client: client, key: key, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, videoID string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key("analysis:"+videoID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, videoID, analysis string) error {
	return c.client.Set(ctx, c.key("analysis:"+videoID), analysis, c.ttl).Err()
}

// NoopCache never stores anything
type NoopCache struct{}

// Get always misses
func (NoopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// Set discards the value
func (NoopCache) Set(context.Context, string, string) error { return nil }

// Verify interface compliance at compile time
var (
	_ Cache = (*redisCache)(nil)
	_ Cache = NoopCache{}
)
