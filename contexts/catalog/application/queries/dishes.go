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

type GetDishUseCase struct {
	Repo     ports.CatalogReader
	Cache    ports.CacheStore
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (uc GetDishUseCase) Execute(ctx context.Context, dishID string) (entities.Dish, error) {
	logger := application.ResolveLogger(uc.Logger)
	return caching.Through(ctx, uc.Cache, logger, caching.DishItemKey(dishID), uc.CacheTTL,
		func(ctx context.Context) (entities.Dish, error) {
			return uc.Repo.GetDish(ctx, dishID)
		})
}

type ListDishesUseCase struct {
	Repo     ports.CatalogReader
	Cache    ports.CacheStore
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (uc ListDishesUseCase) Execute(ctx context.Context, submenuID string, skip, limit int) ([]entities.Dish, error) {
	logger := application.ResolveLogger(uc.Logger)
	skip, limit = normalizePage(skip, limit)
	return caching.Through(ctx, uc.Cache, logger, caching.DishListKey(submenuID, skip, limit), uc.CacheTTL,
		func(ctx context.Context) ([]entities.Dish, error) {
			return uc.Repo.ListDishes(ctx, submenuID, skip, limit)
		})
}
