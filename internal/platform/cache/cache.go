package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stackcare/stackcare-backend/internal/pkg/env"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
)

// Cache is a thin JSON layer over redis. A nil *Cache is valid and disabled:
// every method is a no-op miss, so callers never branch on configuration.
type Cache struct {
	client *redis.Client
	log    *logger.Logger
}

// New connects to redis when REDIS_ADDR is set and returns nil otherwise.
// Connection failure at startup also degrades to nil rather than aborting.
func New(ctx context.Context, baseLog *logger.Logger) *Cache {
	addr := env.Get("REDIS_ADDR", "", baseLog)
	if addr == "" {
		baseLog.Info("REDIS_ADDR not set, cache disabled")
		return nil
	}
	log := baseLog.With("component", "Cache")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: env.Get("REDIS_PASSWORD", "", baseLog),
		DB:       env.GetAsInt("REDIS_DB", 0, baseLog),
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, cache disabled", "addr", addr, "error", err)
		return nil
	}
	log.Info("redis cache connected", "addr", addr)
	return &Cache{client: client, log: log}
}

// GetJSON reports whether the key was found and unmarshalled into dest.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "key", key, "error", err)
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache delete failed", "keys", keys, "error", err)
	}
}

// DeletePattern removes every key matching a glob pattern via SCAN. Used to
// drop all dashboard projections for a user after a write.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", "pattern", pattern, "error", err)
		return
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
