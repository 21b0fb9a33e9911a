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
)

type CreateMenuCommand struct {
	Title       string
	Description string
}

type CreateMenuUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CreateMenuUseCase) Execute(ctx context.Context, cmd CreateMenuCommand) (entities.Menu, error) {
	logger := application.ResolveLogger(uc.Logger)

	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return entities.Menu{}, domainerrors.ErrInvalidMenuInput
	}

	menuID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Menu{}, err
	}
	now := uc.Clock.Now().UTC()

	created, outboxID, err := uc.Writer.CreateMenu(ctx, entities.Menu{
		MenuID:      menuID,
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return entities.Menu{}, err
	}

	uc.Invalidator.MenuMutated(ctx, events.ActionCreate, created.MenuID)
	logger.Info("menu created",
		"event", "menu_created",
		"module", "catalog",
		"layer", "application",
		"menu_id", created.MenuID,
		"outbox_id", outboxID,
	)
	return created, nil
}

type UpdateMenuCommand struct {
	MenuID      string
	Title       *string
	Description *string
}

type UpdateMenuUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc UpdateMenuUseCase) Execute(ctx context.Context, cmd UpdateMenuCommand) (entities.Menu, error) {
	logger := application.ResolveLogger(uc.Logger)

	patch, err := textPatch(cmd.Title, cmd.Description, domainerrors.ErrInvalidMenuInput)
	if err != nil {
		return entities.Menu{}, err
	}

	updated, outboxID, err := uc.Writer.UpdateMenu(ctx, cmd.MenuID, entities.MenuPatch{
		Title:       patch.title,
		Description: patch.description,
	})
	if err != nil {
		return entities.Menu{}, err
	}

	uc.Invalidator.MenuMutated(ctx, events.ActionUpdate, updated.MenuID)
	logger.Info("menu updated",
		"event", "menu_updated",
		"module", "catalog",
		"layer", "application",
		"menu_id", updated.MenuID,
		"outbox_id", outboxID,
	)
	return updated, nil
}

type DeleteMenuUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Logger      *slog.Logger
}

func (uc DeleteMenuUseCase) Execute(ctx context.Context, menuID string) (entities.Menu, error) {
	logger := application.ResolveLogger(uc.Logger)

	deleted, outboxID, err := uc.Writer.DeleteMenu(ctx, menuID)
	if err != nil {
		return entities.Menu{}, err
	}

	uc.Invalidator.MenuMutated(ctx, events.ActionDelete, deleted.MenuID)
	logger.Info("menu deleted",
		"event", "menu_deleted",
		"module", "catalog",
		"layer", "application",
		"menu_id", deleted.MenuID,
		"outbox_id", outboxID,
	)
	return deleted, nil
}
