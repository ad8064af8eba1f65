// Package cache is a Redis-backed read-through cache for portal GET
// responses. The gateway consults it before going upstream; a miss or a
// Redis outage just means the request goes through uncached.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

// Config holds Redis connection configuration.
type Config struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
}

// Client wraps Redis operations for response caching.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache client and verifies connectivity.
func New(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key builds the cache key for a resource path and its query parameters.
// Parameters are sorted so equivalent requests share an entry.
func Key(resource string, query url.Values) string {
	if len(query) == 0 {
		return "portal:" + resource
	}
	parts := make([]string, 0, len(query))
	for k, vs := range query {
		for _, v := range vs {
			parts = append(parts, k+"="+v)
		}
	}
	sort.Strings(parts)
	return "portal:" + resource + "?" + strings.Join(parts, "&")
}

// Get returns the cached payload for key, with found=false on a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return data, true, nil
}

// Set stores a payload under key for the configured TTL.
func (c *Client) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate removes every entry under the given resource prefix.
func (c *Client) Invalidate(ctx context.Context, resource string) error {
	iter := c.rdb.Scan(ctx, 0, "portal:"+resource+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache invalidate: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	return nil
}
