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

type GetSubmenuUseCase struct {
	Repo     ports.CatalogReader
	Cache    ports.CacheStore
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (uc GetSubmenuUseCase) Execute(ctx context.Context, submenuID string) (entities.SubmenuView, error) {
	logger := application.ResolveLogger(uc.Logger)
	return caching.Through(ctx, uc.Cache, logger, caching.SubmenuItemKey(submenuID), uc.CacheTTL,
		func(ctx context.Context) (entities.SubmenuView, error) {
			return uc.Repo.GetSubmenu(ctx, submenuID)
		})
}

type ListSubmenusUseCase struct {
	Repo     ports.CatalogReader
	Cache    ports.CacheStore
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (uc ListSubmenusUseCase) Execute(ctx context.Context, menuID string, skip, limit int) ([]entities.SubmenuView, error) {
	logger := application.ResolveLogger(uc.Logger)
	skip, limit = normalizePage(skip, limit)
	return caching.Through(ctx, uc.Cache, logger, caching.SubmenuListKey(menuID, skip, limit), uc.CacheTTL,
		func(ctx context.Context) ([]entities.SubmenuView, error) {
			return uc.Repo.ListSubmenus(ctx, menuID, skip, limit)
		})
}
