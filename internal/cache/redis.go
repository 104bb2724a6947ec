package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares computed views between dashboard replicas. Values are
// stored as JSON under a common key prefix and expire through Redis TTLs.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits, misses atomic.Int64
}

var (
	_ Cache[int]    = (*RedisCache[int])(nil)
	_ StatsReporter = (*RedisCache[int])(nil)
)

// NewRedisClient parses a redis:// URL and checks connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisCache[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisCache[T] {
	return &RedisCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache[T]) key(k string) string {
	return c.prefix + ":" + k
}

// Get treats every Redis or decoding failure as a miss.
func (c *RedisCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Redis get failed", "component", "cache", "key", key, "error", err)
		}
		c.misses.Add(1)
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.WarnContext(ctx, "Discarding undecodable cache entry", "component", "cache", "key", key, "error", err)
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return v, true
}

func (c *RedisCache[T]) Set(ctx context.Context, key string, data T) {
	b, err := json.Marshal(data)
	if err != nil {
		slog.WarnContext(ctx, "Cache entry not encodable", "component", "cache", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(key), b, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis set failed", "component", "cache", "key", key, "error", err)
	}
}

// Stats counts lookups made by this process only. Entries is left zero
// because the keyspace is shared with other replicas.
func (c *RedisCache[T]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
