// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package council

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peerline/peerline/internal/platform/constants"
)

// tallyCacheTTL bounds staleness for dashboard polling. Cast and finalize
// invalidate eagerly; the TTL only covers missed invalidations.
const tallyCacheTTL = 30 * time.Second

// RedisTallyCache implements [TallyCache] on Redis.
//
// Cache failures are logged and swallowed; the tally is always recomputable
// from Postgres, so Redis being down degrades latency, not correctness.
type RedisTallyCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisTallyCache creates a Redis-backed tally cache.
func NewRedisTallyCache(client *redis.Client, logger *slog.Logger) *RedisTallyCache {
	return &RedisTallyCache{client: client, logger: logger}
}

func tallyKey(articleID string) string {
	return constants.RedisPrefixTally + articleID
}

// Get returns the cached tally, or false on miss or any cache failure.
func (cache *RedisTallyCache) Get(ctx context.Context, articleID string) (*Tally, bool) {
	payload, err := cache.client.Get(ctx, tallyKey(articleID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.Warn("tally_cache_get_failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var tally Tally
	if err := json.Unmarshal(payload, &tally); err != nil {
		// Unreadable payload, treat as a miss and let the set overwrite it.
		return nil, false
	}
	return &tally, true
}

// Set stores the tally snapshot with the standard TTL.
func (cache *RedisTallyCache) Set(ctx context.Context, articleID string, tally Tally) {
	payload, err := json.Marshal(tally)
	if err != nil {
		return
	}
	if err := cache.client.Set(ctx, tallyKey(articleID), payload, tallyCacheTTL).Err(); err != nil {
		cache.logger.Warn("tally_cache_set_failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached tally after a vote or finalization.
func (cache *RedisTallyCache) Invalidate(ctx context.Context, articleID string) {
	if err := cache.client.Del(ctx, tallyKey(articleID)).Err(); err != nil {
		cache.logger.Warn("tally_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}

// NoopTallyCache is the cache used when Redis is not configured.
type NoopTallyCache struct{}

func (NoopTallyCache) Get(context.Context, string) (*Tally, bool) { return nil, false }
func (NoopTallyCache) Set(context.Context, string, Tally)         {}
func (NoopTallyCache) Invalidate(context.Context, string)         {}
