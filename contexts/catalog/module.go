package catalog

import (
	"log/slog"
	"time"

	httpadapter "carte/contexts/catalog/adapters/http"
	"carte/contexts/catalog/application/caching"
	"carte/contexts/catalog/application/commands"
	"carte/contexts/catalog/application/queries"
	"carte/contexts/catalog/ports"
)

type Module struct {
	Handler httpadapter.Handler
}

type Dependencies struct {
	Reader      ports.CatalogReader
	Writer      ports.CatalogWriter
	Cache       ports.CacheStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	CacheTTL    time.Duration
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	invalidator := caching.Invalidator{
		Cache:  deps.Cache,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateMenu: commands.CreateMenuUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			UpdateMenu: commands.UpdateMenuUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Clock:       deps.Clock,
				Logger:      deps.Logger,
			},
			DeleteMenu: commands.DeleteMenuUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Logger:      deps.Logger,
			},
			CreateSubmenu: commands.CreateSubmenuUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			UpdateSubmenu: commands.UpdateSubmenuUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Logger:      deps.Logger,
			},
			DeleteSubmenu: commands.DeleteSubmenuUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Logger:      deps.Logger,
			},
			CreateDish: commands.CreateDishUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			UpdateDish: commands.UpdateDishUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Logger:      deps.Logger,
			},
			DeleteDish: commands.DeleteDishUseCase{
				Writer:      deps.Writer,
				Invalidator: invalidator,
				Logger:      deps.Logger,
			},
			GetMenu: queries.GetMenuUseCase{
				Repo:     deps.Reader,
				Cache:    deps.Cache,
				CacheTTL: deps.CacheTTL,
				Logger:   deps.Logger,
			},
			ListMenus: queries.ListMenusUseCase{
				Repo:     deps.Reader,
				Cache:    deps.Cache,
				CacheTTL: deps.CacheTTL,
				Logger:   deps.Logger,
			},
			GetSubmenu: queries.GetSubmenuUseCase{
				Repo:     deps.Reader,
				Cache:    deps.Cache,
				CacheTTL: deps.CacheTTL,
				Logger:   deps.Logger,
			},
			ListSubmenus: queries.ListSubmenusUseCase{
				Repo:     deps.Reader,
				Cache:    deps.Cache,
				CacheTTL: deps.CacheTTL,
				Logger:   deps.Logger,
			},
			GetDish: queries.GetDishUseCase{
				Repo:     deps.Reader,
				Cache:    deps.Cache,
				CacheTTL: deps.CacheTTL,
				Logger:   deps.Logger,
			},
			ListDishes: queries.ListDishesUseCase{
				Repo:     deps.Reader,
				Cache:    deps.Cache,
				CacheTTL: deps.CacheTTL,
				Logger:   deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}
