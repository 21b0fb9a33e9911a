package commands

import (
	"context"
	"log/slog"
	"strings"

	application "carte/contexts/catalog/application"
	"carte/contexts/catalog/application/caching"
	"carte/contexts/catalog/domain/entities"
	domainerrors "carte/contexts/catalog/domain/errors"
	"carte/contexts/catalog/domain/events"
	"carte/contexts/catalog/ports"

	"github.com/shopspring/decimal"
)

type CreateDishCommand struct {
	MenuID      string
	SubmenuID   string
	Title       string
	Description string
	Price       decimal.Decimal
}

type CreateDishUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CreateDishUseCase) Execute(ctx context.Context, cmd CreateDishCommand) (entities.Dish, error) {
	logger := application.ResolveLogger(uc.Logger)

	title := strings.TrimSpace(cmd.Title)
	submenuID := strings.TrimSpace(cmd.SubmenuID)
	if title == "" || submenuID == "" {
		return entities.Dish{}, domainerrors.ErrInvalidDishInput
	}
	// Price is validated before any store write is attempted.
	if cmd.Price.IsNegative() {
		return entities.Dish{}, domainerrors.ErrInvalidDishPrice
	}

	dishID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Dish{}, err
	}
	now := uc.Clock.Now().UTC()

	created, outboxID, err := uc.Writer.CreateDish(ctx, entities.Dish{
		DishID:      dishID,
		SubmenuID:   submenuID,
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		Price:       cmd.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return entities.Dish{}, err
	}

	uc.Invalidator.DishMutated(ctx, events.ActionCreate, cmd.MenuID, created.SubmenuID, created.DishID)
	logger.Info("dish created",
		"event", "dish_created",
		"module", "catalog",
		"layer", "application",
		"submenu_id", created.SubmenuID,
		"dish_id", created.DishID,
		"outbox_id", outboxID,
	)
	return created, nil
}

type UpdateDishCommand struct {
	MenuID      string
	SubmenuID   string
	DishID      string
	Title       *string
	Description *string
	Price       *decimal.Decimal
}

type UpdateDishUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Logger      *slog.Logger
}

func (uc UpdateDishUseCase) Execute(ctx context.Context, cmd UpdateDishCommand) (entities.Dish, error) {
	logger := application.ResolveLogger(uc.Logger)

	patch, err := textPatch(cmd.Title, cmd.Description, domainerrors.ErrInvalidDishInput)
	if err != nil {
		return entities.Dish{}, err
	}
	if cmd.Price != nil && cmd.Price.IsNegative() {
		return entities.Dish{}, domainerrors.ErrInvalidDishPrice
	}

	updated, outboxID, err := uc.Writer.UpdateDish(ctx, cmd.DishID, entities.DishPatch{
		Title:       patch.title,
		Description: patch.description,
		Price:       cmd.Price,
	})
	if err != nil {
		return entities.Dish{}, err
	}

	uc.Invalidator.DishMutated(ctx, events.ActionUpdate, cmd.MenuID, cmd.SubmenuID, updated.DishID)
	logger.Info("dish updated",
		"event", "dish_updated",
		"module", "catalog",
		"layer", "application",
		"submenu_id", updated.SubmenuID,
		"dish_id", updated.DishID,
		"outbox_id", outboxID,
	)
	return updated, nil
}

type DeleteDishCommand struct {
	MenuID    string
	SubmenuID string
	DishID    string
}

type DeleteDishUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Logger      *slog.Logger
}

func (uc DeleteDishUseCase) Execute(ctx context.Context, cmd DeleteDishCommand) (entities.Dish, error) {
	logger := application.ResolveLogger(uc.Logger)

	deleted, outboxID, err := uc.Writer.DeleteDish(ctx, cmd.DishID)
	if err != nil {
		return entities.Dish{}, err
	}

	uc.Invalidator.DishMutated(ctx, events.ActionDelete, cmd.MenuID, deleted.SubmenuID, deleted.DishID)
	logger.Info("dish deleted",
		"event", "dish_deleted",
		"module", "catalog",
		"layer", "application",
		"submenu_id", deleted.SubmenuID,
		"dish_id", deleted.DishID,
		"outbox_id", outboxID,
	)
	return deleted, nil
}
