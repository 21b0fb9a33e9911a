package queries

import (
	"context"
	"log/slog"
	"time"

	application "carte/contexts/catalog/application"
	"carte/contexts/catalog/application/caching"
	"carte/contexts/catalog/domain/entities"
	"carte/contexts/catalog/ports"
)

type GetMenuUseCase struct {
	Repo     ports.CatalogReader
	Cache    ports.CacheStore
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (uc GetMenuUseCase) Execute(ctx context.Context, menuID string) (entities.MenuView, error) {
	logger := application.ResolveLogger(uc.Logger)
	return caching.Through(ctx, uc.Cache, logger, caching.MenuItemKey(menuID), uc.CacheTTL,
		func(ctx context.Context) (entities.MenuView, error) {
			return uc.Repo.GetMenu(ctx, menuID)
		})
}

type ListMenusUseCase struct {
	Repo     ports.CatalogReader
	Cache    ports.CacheStore
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (uc ListMenusUseCase) Execute(ctx context.Context, skip, limit int) ([]entities.MenuView, error) {
	logger := application.ResolveLogger(uc.Logger)
	skip, limit = normalizePage(skip, limit)
	return caching.Through(ctx, uc.Cache, logger, caching.MenuListKey(skip, limit), uc.CacheTTL,
		func(ctx context.Context) ([]entities.MenuView, error) {
			return uc.Repo.ListMenus(ctx, skip, limit)
		})
}
