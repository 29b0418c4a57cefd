package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache keys for the public catalog read path. Order assembly never reads
// through the cache, so order snapshots always reflect the live row.
const (
	ProductListKey = "catalog:products"
)

// ProductKey returns the cache key for a product detail entry.
func ProductKey(id string) string {
	return "catalog:product:" + id
}

// Client is a redis-backed JSON cache for catalog reads.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new cache client and verifies connectivity.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetJSON loads a cached JSON value into dest. The second return is false on
// a miss.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode failed: %w", err)
	}
	return true, nil
}

// SetJSON stores a JSON value with the configured TTL.
func (c *Client) SetJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode failed: %w", err)
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Delete removes cache entries; used by the admin write path to invalidate
// stale catalog reads.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
