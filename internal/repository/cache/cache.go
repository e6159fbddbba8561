// Package cache is a Redis-backed JSON response cache for SEO data
// provider results (keyword suggestions, SERP snapshots).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/db"
)

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores serialized provider responses with a TTL.
// A nil *Cache is valid and behaves as a pass-through (always miss, no-op
// put), so services need no branching when caching is not configured.
type Cache struct {
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a response cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the cached payload for the key parts, or nil, false on miss.
// Store errors are logged and reported as misses; the cache never fails a
// request.
func (c *Cache) Get(ctx context.Context, parts ...string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	key := c.key(parts)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read response cache", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return nil, false
	}
	if len(data) == 0 {
		c.inc("miss")
		return nil, false
	}

	c.inc("hit")
	return data, true
}

// Put stores the payload under the key parts with the configured TTL.
// Store errors are logged, not returned.
func (c *Cache) Put(ctx context.Context, data []byte, parts ...string) {
	if c == nil {
		return
	}

	key := c.key(parts)
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write response cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) key(parts []string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return c.prefix + hex.EncodeToString(h[:])
}
