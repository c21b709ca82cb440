// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gameart resolves the icon shown next to the game in the Discord
presence card.

Lookups go to SteamGridDB and are cached by lowercased game name. Misses and
upstream failures are cached too, for a shorter time, so a flaky API or an
unknown game does not cost a round trip on every page view.
*/
package gameart

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// # Cache Lifetimes

const (
	HitTTL  = 7 * 24 * time.Hour
	MissTTL = time.Hour
)

// Lookup resolves a game name to an icon url.
type Lookup interface {
	Configured() bool
	IconURL(ctx context.Context, name string) (string, error)
}

// Service answers icon lookups from the cache or SteamGridDB.
type Service struct {
	lookup Lookup
	cache  Cache
	logger *slog.Logger
}

func NewService(lookup Lookup, cache Cache, logger *slog.Logger) *Service {
	return &Service{lookup: lookup, cache: cache, logger: logger}
}

// ImageURL returns the icon url for name, or nil when there is none, no API
// key is configured, or the lookup failed.
func (service *Service) ImageURL(context context.Context, name string) *string {
	if !service.lookup.Configured() {
		return nil
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if url, found, err := service.cache.Get(context, key); err != nil {
		service.logger.WarnContext(context, "gameart_cache_read_failed", slog.String("error", err.Error()))
	} else if found {
		return nonEmpty(url)
	}

	url, err := service.lookup.IconURL(context, name)
	ttl := HitTTL
	if err != nil {
		service.logger.WarnContext(context, "gameart_lookup_failed",
			slog.String("game", name),
			slog.String("error", err.Error()),
		)
		url = ""
	}
	if url == "" {
		ttl = MissTTL
	}

	if err := service.cache.Set(context, key, url, ttl); err != nil {
		service.logger.WarnContext(context, "gameart_cache_write_failed", slog.String("error", err.Error()))
	}
	return nonEmpty(url)
}

func nonEmpty(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}
