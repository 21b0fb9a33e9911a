package httpadapter

import (
	"context"
	"log/slog"

	"carte/contexts/catalog/application/commands"
	"carte/contexts/catalog/application/queries"
	"carte/contexts/catalog/domain/entities"
	domainerrors "carte/contexts/catalog/domain/errors"
	httptransport "carte/contexts/catalog/transport/http"

	"github.com/shopspring/decimal"
)

type Handler struct {
	CreateMenu    commands.CreateMenuUseCase
	UpdateMenu    commands.UpdateMenuUseCase
	DeleteMenu    commands.DeleteMenuUseCase
	CreateSubmenu commands.CreateSubmenuUseCase
	UpdateSubmenu commands.UpdateSubmenuUseCase
	DeleteSubmenu commands.DeleteSubmenuUseCase
	CreateDish    commands.CreateDishUseCase
	UpdateDish    commands.UpdateDishUseCase
	DeleteDish    commands.DeleteDishUseCase

	GetMenu      queries.GetMenuUseCase
	ListMenus    queries.ListMenusUseCase
	GetSubmenu   queries.GetSubmenuUseCase
	ListSubmenus queries.ListSubmenusUseCase
	GetDish      queries.GetDishUseCase
	ListDishes   queries.ListDishesUseCase

	Logger *slog.Logger
}

func (h Handler) CreateMenuHandler(ctx context.Context, req httptransport.CreateMenuRequest) (httptransport.MenuDTO, error) {
	created, err := h.CreateMenu.Execute(ctx, commands.CreateMenuCommand{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.MenuDTO{}, err
	}
	return mapMenu(entities.MenuView{Menu: created}), nil
}

func (h Handler) GetMenuHandler(ctx context.Context, menuID string) (httptransport.MenuDTO, error) {
	view, err := h.GetMenu.Execute(ctx, menuID)
	if err != nil {
		return httptransport.MenuDTO{}, err
	}
	return mapMenu(view), nil
}

func (h Handler) ListMenusHandler(ctx context.Context, skip, limit int) ([]httptransport.MenuDTO, error) {
	views, err := h.ListMenus.Execute(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.MenuDTO, 0, len(views))
	for _, view := range views {
		items = append(items, mapMenu(view))
	}
	return items, nil
}

func (h Handler) UpdateMenuHandler(ctx context.Context, menuID string, req httptransport.UpdateMenuRequest) (httptransport.MenuDTO, error) {
	updated, err := h.UpdateMenu.Execute(ctx, commands.UpdateMenuCommand{
		MenuID:      menuID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.MenuDTO{}, err
	}
	return mapMenu(entities.MenuView{Menu: updated}), nil
}

func (h Handler) DeleteMenuHandler(ctx context.Context, menuID string) (httptransport.MenuDTO, error) {
	deleted, err := h.DeleteMenu.Execute(ctx, menuID)
	if err != nil {
		return httptransport.MenuDTO{}, err
	}
	return mapMenu(entities.MenuView{Menu: deleted}), nil
}

func (h Handler) CreateSubmenuHandler(ctx context.Context, menuID string, req httptransport.CreateSubmenuRequest) (httptransport.SubmenuDTO, error) {
	created, err := h.CreateSubmenu.Execute(ctx, commands.CreateSubmenuCommand{
		MenuID:      menuID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.SubmenuDTO{}, err
	}
	return mapSubmenu(entities.SubmenuView{Submenu: created}), nil
}

func (h Handler) GetSubmenuHandler(ctx context.Context, submenuID string) (httptransport.SubmenuDTO, error) {
	view, err := h.GetSubmenu.Execute(ctx, submenuID)
	if err != nil {
		return httptransport.SubmenuDTO{}, err
	}
	return mapSubmenu(view), nil
}

func (h Handler) ListSubmenusHandler(ctx context.Context, menuID string, skip, limit int) ([]httptransport.SubmenuDTO, error) {
	views, err := h.ListSubmenus.Execute(ctx, menuID, skip, limit)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.SubmenuDTO, 0, len(views))
	for _, view := range views {
		items = append(items, mapSubmenu(view))
	}
	return items, nil
}

func (h Handler) UpdateSubmenuHandler(ctx context.Context, menuID, submenuID string, req httptransport.UpdateSubmenuRequest) (httptransport.SubmenuDTO, error) {
	updated, err := h.UpdateSubmenu.Execute(ctx, commands.UpdateSubmenuCommand{
		MenuID:      menuID,
		SubmenuID:   submenuID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.SubmenuDTO{}, err
	}
	return mapSubmenu(entities.SubmenuView{Submenu: updated}), nil
}

func (h Handler) DeleteSubmenuHandler(ctx context.Context, menuID, submenuID string) (httptransport.SubmenuDTO, error) {
	deleted, err := h.DeleteSubmenu.Execute(ctx, commands.DeleteSubmenuCommand{
		MenuID:    menuID,
		SubmenuID: submenuID,
	})
	if err != nil {
		return httptransport.SubmenuDTO{}, err
	}
	return mapSubmenu(entities.SubmenuView{Submenu: deleted}), nil
}

func (h Handler) CreateDishHandler(ctx context.Context, menuID, submenuID string, req httptransport.CreateDishRequest) (httptransport.DishDTO, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return httptransport.DishDTO{}, err
	}
	created, err := h.CreateDish.Execute(ctx, commands.CreateDishCommand{
		MenuID:      menuID,
		SubmenuID:   submenuID,
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
	})
	if err != nil {
		return httptransport.DishDTO{}, err
	}
	return mapDish(created), nil
}

func (h Handler) GetDishHandler(ctx context.Context, dishID string) (httptransport.DishDTO, error) {
	dish, err := h.GetDish.Execute(ctx, dishID)
	if err != nil {
		return httptransport.DishDTO{}, err
	}
	return mapDish(dish), nil
}

func (h Handler) ListDishesHandler(ctx context.Context, submenuID string, skip, limit int) ([]httptransport.DishDTO, error) {
	dishes, err := h.ListDishes.Execute(ctx, submenuID, skip, limit)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.DishDTO, 0, len(dishes))
	for _, dish := range dishes {
		items = append(items, mapDish(dish))
	}
	return items, nil
}

func (h Handler) UpdateDishHandler(ctx context.Context, menuID, submenuID, dishID string, req httptransport.UpdateDishRequest) (httptransport.DishDTO, error) {
	var price *decimal.Decimal
	if req.Price != nil {
		parsed, err := parsePrice(*req.Price)
		if err != nil {
			return httptransport.DishDTO{}, err
		}
		price = &parsed
	}
	updated, err := h.UpdateDish.Execute(ctx, commands.UpdateDishCommand{
		MenuID:      menuID,
		SubmenuID:   submenuID,
		DishID:      dishID,
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
	})
	if err != nil {
		return httptransport.DishDTO{}, err
	}
	return mapDish(updated), nil
}

func (h Handler) DeleteDishHandler(ctx context.Context, menuID, submenuID, dishID string) (httptransport.DishDTO, error) {
	deleted, err := h.DeleteDish.Execute(ctx, commands.DeleteDishCommand{
		MenuID:    menuID,
		SubmenuID: submenuID,
		DishID:    dishID,
	})
	if err != nil {
		return httptransport.DishDTO{}, err
	}
	return mapDish(deleted), nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, domainerrors.ErrInvalidDishInput
	}
	return price, nil
}

func mapMenu(view entities.MenuView) httptransport.MenuDTO {
	return httptransport.MenuDTO{
		ID:            view.MenuID,
		Title:         view.Title,
		Description:   view.Description,
		SubmenusCount: view.SubmenusCount,
		DishesCount:   view.DishesCount,
	}
}

func mapSubmenu(view entities.SubmenuView) httptransport.SubmenuDTO {
	return httptransport.SubmenuDTO{
		ID:          view.SubmenuID,
		MenuID:      view.MenuID,
		Title:       view.Title,
		Description: view.Description,
		DishesCount: view.DishesCount,
	}
}

func mapDish(dish entities.Dish) httptransport.DishDTO {
	return httptransport.DishDTO{
		ID:          dish.DishID,
		SubmenuID:   dish.SubmenuID,
		Title:       dish.Title,
		Description: dish.Description,
		Price:       dish.Price.String(),
	}
}
