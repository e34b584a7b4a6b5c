// Package cache provides an optional Redis-backed result cache for the
// cmd/api HTTP surface. Persisting parse results is outside the parsing
// core's concern, so nothing in internal/pipeline depends on this
// package; it is wired in only at the HTTP boundary, adapted from the
// app/services/redis_cache_service.go.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vnaddress/parser/internal/model"
)

// RedisResultCache caches ParseResult by the normalized input string.
type RedisResultCache struct {
	client *redis.Client
	log    *zap.Logger
	prefix string
	ttl    time.Duration

	hits, misses int64
}

// NewRedisResultCache connects to redisURL and verifies reachability.
func NewRedisResultCache(redisURL string, ttl time.Duration, log *zap.Logger) (*RedisResultCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisResultCache{client: client, log: log, prefix: "vnaddress:parse:", ttl: ttl}, nil
}

// Get returns the cached result for a normalized input, if present.
func (c *RedisResultCache) Get(ctx context.Context, normalizedInput string) (model.ParseResult, bool) {
	val, err := c.client.Get(ctx, c.prefix+normalizedInput).Result()
	if err == redis.Nil {
		c.misses++
		return model.ParseResult{}, false
	}
	if err != nil {
		c.log.Warn("redis cache get failed", zap.Error(err))
		return model.ParseResult{}, false
	}
	var result model.ParseResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		c.log.Warn("redis cache unmarshal failed", zap.Error(err))
		return model.ParseResult{}, false
	}
	c.hits++
	return result, true
}

// Set stores a result keyed by its normalized input.
func (c *RedisResultCache) Set(ctx context.Context, normalizedInput string, result model.ParseResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return c.client.Set(ctx, c.prefix+normalizedInput, data, c.ttl).Err()
}

// Stats reports hit/miss counters accumulated since process start.
func (c *RedisResultCache) Stats() (hits, misses int64) {
	return c.hits, c.misses
}

// Close releases the underlying Redis connection.
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}
