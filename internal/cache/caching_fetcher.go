// Package cache provides a Redis read-through cache for market-data fetchers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"StockLens/internal/collector"
	"StockLens/internal/model"
)

// DefaultTTL is used when no positive TTL is configured.
const DefaultTTL = 15 * time.Minute

// CachingFetcher decorates a collector.Fetcher with Redis caching.
type CachingFetcher struct {
	inner     collector.Fetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ collector.Fetcher = (*CachingFetcher)(nil)

// NewCachingFetcher wraps inner. If ttl is 0, it defaults to 15 minutes.
// If namespace is empty, it uses "bars". A nil client disables caching.
func NewCachingFetcher(rdb *redis.Client, ttl time.Duration, inner collector.Fetcher, namespace string) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingFetcher{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingFetcher) Name() string { return c.inner.Name() }

// FetchBars checks the cache first, then falls back to the wrapped fetcher.
func (c *CachingFetcher) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error) {
	if c.rdb == nil {
		return c.inner.FetchBars(ctx, symbol, period, interval)
	}

	key := c.cacheKey(symbol, period, interval)

	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []model.Bar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && err != redis.Nil:
		log.Printf("[WARN] cache get %s: %v", key, err)
	}

	out, err := c.inner.FetchBars(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Printf("[WARN] cache set %s: %v", key, err)
		}
	}
	return out, nil
}

// cacheKey generates a cache key for one request.
func (c *CachingFetcher) cacheKey(symbol, period, interval string) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		c.namespace,
		c.inner.Name(),
		safe(strings.ToUpper(symbol)),
		safe(period),
		safe(interval),
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

// NewClient opens a Redis client and verifies it with PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
