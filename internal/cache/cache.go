package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Generation formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Key prefixes of cached read models
const (
	PostsPrefix = "posts:" // Post pages and single posts
	TagsPrefix  = "tags:"  // Tag list and single tags

	generationPrefix = "generation:" // Counter keys, kept outside the cached prefixes
)

// Cache stores JSON-encoded values under string keys
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)             // Reports whether key was found
	Set(ctx context.Context, key string, value any, ttl time.Duration) error // Stores value for ttl
	DeletePrefix(ctx context.Context, prefix string) error                   // Drops every key under prefix and bumps its generation
	Generation(ctx context.Context, prefix string) (int64, error)            // Current generation of prefix, 0 when never invalidated
}

// Key builds the cache key of name in the given generation of prefix.
// Entries written under an older generation are never read again.
func Key(prefix string, gen int64, name string) string {
	return prefix + "g" + strconv.FormatInt(gen, 10) + ":" + name
}

// RedisCache is a Cache backed by Redis
type RedisCache struct {
	rdb *redis.Client // Redis client
}

// NewRedis wraps a Redis client
func NewRedis(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err // Stale or foreign payload
	}
	return true, nil
}

// Set sets a value in Redis with a specified TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeletePrefix bumps the generation of prefix, then scans for keys under
// it and deletes them in batches. The bump comes first so that a reader
// which loaded before the write cannot store its stale value where the
// next reader looks.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	if err := c.rdb.Incr(ctx, generationPrefix+prefix).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

// Generation reads the invalidation counter of prefix
func (c *RedisCache) Generation(ctx context.Context, prefix string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationPrefix+prefix).Int64()
	if err == redis.Nil {
		return 0, nil // Never invalidated
	}
	return gen, err
}

// Nop is a Cache that stores nothing
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) DeletePrefix(context.Context, string) error            { return nil }
func (Nop) Generation(context.Context, string) (int64, error)     { return 0, nil }
