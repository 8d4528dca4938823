// Package cache keeps block-status lookups in Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"keepsakes/entity"
	"keepsakes/metrics"
)

const blockKeyPrefix = "block:"

// BlockCache stores whether a block exists in either direction between two
// users, keyed by the unordered pair.
type BlockCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBlockCache(client *redis.Client, ttl time.Duration) *BlockCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &BlockCache{client: client, ttl: ttl}
}

func blockKey(userAID, userBID string) string {
	return blockKeyPrefix + entity.PairKeyOf(userAID, userBID)
}

// Get returns found=false on a miss.
func (c *BlockCache) Get(ctx context.Context, userAID, userBID string) (blocked bool, found bool, err error) {
	val, err := c.client.Get(ctx, blockKey(userAID, userBID)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.BlockCacheLookups.WithLabelValues("miss").Inc()
		return false, false, nil
	}
	if err != nil {
		metrics.BlockCacheLookups.WithLabelValues("error").Inc()
		return false, false, err
	}
	metrics.BlockCacheLookups.WithLabelValues("hit").Inc()
	return val == "1", true, nil
}

func cacheValue(blocked bool) string {
	if blocked {
		return "1"
	}
	return "0"
}

// Set overwrites the cached status.
func (c *BlockCache) Set(ctx context.Context, userAID, userBID string, blocked bool) error {
	return c.client.Set(ctx, blockKey(userAID, userBID), cacheValue(blocked), c.ttl).Err()
}

// Fill stores the status only when the pair has no entry yet, so a value
// written by Set in the meantime is kept.
func (c *BlockCache) Fill(ctx context.Context, userAID, userBID string, blocked bool) error {
	return c.client.SetNX(ctx, blockKey(userAID, userBID), cacheValue(blocked), c.ttl).Err()
}

func (c *BlockCache) Invalidate(ctx context.Context, userAID, userBID string) error {
	return c.client.Del(ctx, blockKey(userAID, userBID)).Err()
}
