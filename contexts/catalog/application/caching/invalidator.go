package caching

import (
	"context"
	"log/slog"

	"carte/contexts/catalog/domain/events"
	"carte/contexts/catalog/ports"
)

// Invalidator purges every cache key whose value could be stale after a
// mutation: the mutated kind's own list prefix and item key, plus the list
// prefixes and item keys of every ancestor whose cached views denormalize the
// mutated data. Mutating a parent never purges child keys, since child views
// do not embed parent fields. A create skips its own item key, which cannot
// have been cached yet.
//
// Invalidation runs after the mutation's transaction commits. A cache failure
// here must not unwind the committed write, so errors are logged and
// swallowed; the affected keys are purged again by the next invalidating
// mutation.
type Invalidator struct {
	Cache  ports.CacheStore
	Logger *slog.Logger
}

func (i Invalidator) MenuMutated(ctx context.Context, action events.Action, menuID string) {
	var keys []string
	if action != events.ActionCreate {
		keys = append(keys, MenuItemKey(menuID))
	}
	i.purge(ctx, []string{MenuListPrefix}, keys)
}

func (i Invalidator) SubmenuMutated(ctx context.Context, action events.Action, menuID, submenuID string) {
	keys := []string{MenuItemKey(menuID)}
	if action != events.ActionCreate {
		keys = append(keys, SubmenuItemKey(submenuID))
	}
	i.purge(ctx, []string{SubmenuListPrefix, MenuListPrefix}, keys)
}

func (i Invalidator) DishMutated(ctx context.Context, action events.Action, menuID, submenuID, dishID string) {
	keys := []string{MenuItemKey(menuID), SubmenuItemKey(submenuID)}
	if action != events.ActionCreate {
		keys = append(keys, DishItemKey(dishID))
	}
	i.purge(ctx, []string{DishListPrefix, MenuListPrefix, SubmenuListPrefix}, keys)
}

func (i Invalidator) purge(ctx context.Context, prefixes, keys []string) {
	if i.Cache == nil {
		return
	}
	for _, prefix := range prefixes {
		if err := i.Cache.DeleteByPrefix(ctx, prefix); err != nil {
			i.logPurgeFailure(prefix, err)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := i.Cache.Delete(ctx, keys...); err != nil {
		for _, key := range keys {
			i.logPurgeFailure(key, err)
		}
	}
}

func (i Invalidator) logPurgeFailure(key string, err error) {
	logger := i.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("cache purge failed, entry may be stale until next invalidation",
		"event", "cache_purge_failed",
		"module", "catalog",
		"layer", "application",
		"cache_key", key,
		"error", err.Error(),
	)
}
