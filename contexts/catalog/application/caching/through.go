package caching

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"carte/contexts/catalog/ports"
)

// Through is the cache-aside read path: a hit is returned as-is without
// touching the store, a miss runs compute and caches its result. Not-found
// results (compute errors) are never cached, so a create is visible on the
// next read. Any cache failure degrades to a direct compute; the cache is an
// optimization, not a correctness dependency for reads.
func Through[T any](
	ctx context.Context,
	cache ports.CacheStore,
	logger *slog.Logger,
	key string,
	ttl time.Duration,
	compute func(context.Context) (T, error),
) (T, error) {
	var zero T
	if cache != nil {
		raw, found, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache read failed, serving from store",
				"event", "cache_get_failed",
				"module", "catalog",
				"layer", "application",
				"cache_key", key,
				"error", err.Error(),
			)
		case found:
			var value T
			if err := json.Unmarshal(raw, &value); err == nil {
				return value, nil
			}
			logger.Warn("cache entry not decodable, recomputing",
				"event", "cache_entry_corrupt",
				"module", "catalog",
				"layer", "application",
				"cache_key", key,
			)
		}
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if cache != nil {
		raw, err := json.Marshal(value)
		if err == nil {
			err = cache.Set(ctx, key, raw, ttl)
		}
		if err != nil {
			logger.Warn("cache populate failed",
				"event", "cache_set_failed",
				"module", "catalog",
				"layer", "application",
				"cache_key", key,
				"error", err.Error(),
			)
		}
	}
	return value, nil
}
