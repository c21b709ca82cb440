// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gameart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/portfolio/internal/platform/constants"
)

// Cache remembers lookups. An empty url records that the game has no icon.
type Cache interface {
	Get(ctx context.Context, key string) (url string, found bool, err error)
	Set(ctx context.Context, key, url string, ttl time.Duration) error
}

// # In-process cache

// maxMemoryEntries caps the in-process cache; past it expired entries are
// dropped, then everything.
const maxMemoryEntries = 2048

type memoryEntry struct {
	url     string
	expires time.Time
}

// MemoryCache is the fallback used when Redis is not configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (cache *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	entry, ok := cache.entries[key]
	if !ok {
		return "", false, nil
	}
	if cache.now().After(entry.expires) {
		delete(cache.entries, key)
		return "", false, nil
	}
	return entry.url, true, nil
}

func (cache *MemoryCache) Set(_ context.Context, key, url string, ttl time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	now := cache.now()
	if len(cache.entries) >= maxMemoryEntries {
		for name, entry := range cache.entries {
			if now.After(entry.expires) {
				delete(cache.entries, name)
			}
		}
		if len(cache.entries) >= maxMemoryEntries {
			clear(cache.entries)
		}
	}
	cache.entries[key] = memoryEntry{url: url, expires: now.Add(ttl)}
	return nil
}

// # Redis cache

// RedisCache shares lookups between instances and across restarts.
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (cache *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	url, err := cache.client.Get(ctx, constants.RedisPrefixGameArt+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (cache *RedisCache) Set(ctx context.Context, key, url string, ttl time.Duration) error {
	return cache.client.Set(ctx, constants.RedisPrefixGameArt+key, url, ttl).Err()
}
