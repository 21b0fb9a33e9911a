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

type CreateSubmenuCommand struct {
	MenuID      string
	Title       string
	Description string
}

type CreateSubmenuUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CreateSubmenuUseCase) Execute(ctx context.Context, cmd CreateSubmenuCommand) (entities.Submenu, error) {
	logger := application.ResolveLogger(uc.Logger)

	title := strings.TrimSpace(cmd.Title)
	menuID := strings.TrimSpace(cmd.MenuID)
	if title == "" || menuID == "" {
		return entities.Submenu{}, domainerrors.ErrInvalidSubmenuInput
	}

	submenuID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Submenu{}, err
	}
	now := uc.Clock.Now().UTC()

	created, outboxID, err := uc.Writer.CreateSubmenu(ctx, entities.Submenu{
		SubmenuID:   submenuID,
		MenuID:      menuID,
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return entities.Submenu{}, err
	}

	uc.Invalidator.SubmenuMutated(ctx, events.ActionCreate, created.MenuID, created.SubmenuID)
	logger.Info("submenu created",
		"event", "submenu_created",
		"module", "catalog",
		"layer", "application",
		"menu_id", created.MenuID,
		"submenu_id", created.SubmenuID,
		"outbox_id", outboxID,
	)
	return created, nil
}

type UpdateSubmenuCommand struct {
	MenuID      string
	SubmenuID   string
	Title       *string
	Description *string
}

type UpdateSubmenuUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Logger      *slog.Logger
}

func (uc UpdateSubmenuUseCase) Execute(ctx context.Context, cmd UpdateSubmenuCommand) (entities.Submenu, error) {
	logger := application.ResolveLogger(uc.Logger)

	patch, err := textPatch(cmd.Title, cmd.Description, domainerrors.ErrInvalidSubmenuInput)
	if err != nil {
		return entities.Submenu{}, err
	}

	updated, outboxID, err := uc.Writer.UpdateSubmenu(ctx, cmd.SubmenuID, entities.SubmenuPatch{
		Title:       patch.title,
		Description: patch.description,
	})
	if err != nil {
		return entities.Submenu{}, err
	}

	uc.Invalidator.SubmenuMutated(ctx, events.ActionUpdate, updated.MenuID, updated.SubmenuID)
	logger.Info("submenu updated",
		"event", "submenu_updated",
		"module", "catalog",
		"layer", "application",
		"menu_id", updated.MenuID,
		"submenu_id", updated.SubmenuID,
		"outbox_id", outboxID,
	)
	return updated, nil
}

type DeleteSubmenuCommand struct {
	MenuID    string
	SubmenuID string
}

type DeleteSubmenuUseCase struct {
	Writer      ports.CatalogWriter
	Invalidator caching.Invalidator
	Logger      *slog.Logger
}

func (uc DeleteSubmenuUseCase) Execute(ctx context.Context, cmd DeleteSubmenuCommand) (entities.Submenu, error) {
	logger := application.ResolveLogger(uc.Logger)

	deleted, outboxID, err := uc.Writer.DeleteSubmenu(ctx, cmd.SubmenuID)
	if err != nil {
		return entities.Submenu{}, err
	}

	uc.Invalidator.SubmenuMutated(ctx, events.ActionDelete, deleted.MenuID, deleted.SubmenuID)
	logger.Info("submenu deleted",
		"event", "submenu_deleted",
		"module", "catalog",
		"layer", "application",
		"menu_id", deleted.MenuID,
		"submenu_id", deleted.SubmenuID,
		"outbox_id", outboxID,
	)
	return deleted, nil
}
