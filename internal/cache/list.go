// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache for serialized list responses.
// Public read endpoints serve the cached JSON; every mutation invalidates
// the topic it changed, so a list is re-read at most once per change.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached list responses.
	listKeyPrefix = "list:"

	// DefaultListTTL bounds staleness if an invalidation is ever missed.
	DefaultListTTL = 5 * time.Minute
)

// ListCache manages serialized list-response caching in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get retrieves the cached response for a topic. Returns nil, false on miss.
func (lc *ListCache) Get(ctx context.Context, topic string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+topic).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "topic", topic, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "topic", topic)
	return val, true
}

// Set stores a serialized response for a topic with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, topic string, body []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+topic, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "topic", topic, "error", err)
	}
}

// Invalidate removes the cached response for a topic. Called after every
// successful mutation in that topic's scope.
func (lc *ListCache) Invalidate(ctx context.Context, topic string) {
	if err := lc.client.Del(ctx, listKeyPrefix+topic).Err(); err != nil {
		slog.Warn("list cache invalidate error", "topic", topic, "error", err)
	}
	slog.Debug("list cache invalidated", "topic", topic)
}
