package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ResultCache stores computed analysis and simulation results keyed by
// request fingerprint. A nil Redis client disables caching entirely, so
// callers never need to branch on configuration.
type ResultCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

// Get loads the cached value for key into dst. Returns false on a miss or
// when caching is disabled. Redis failures are logged and treated as misses;
// the cache must never fail a request.
func (c *ResultCache) Get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil || c.Rdb == nil {
		return false
	}
	raw, err := c.Rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt, ignoring")
		return false
	}
	return true
}

// Set stores value under key with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.Rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set marshal failed")
		return
	}
	if err := c.Rdb.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
