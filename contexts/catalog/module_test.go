package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	catalog "carte/contexts/catalog"
	"carte/contexts/catalog/adapters/memory"
	"carte/contexts/catalog/domain/events"
	httptransport "carte/contexts/catalog/transport/http"
)

func newTestModule(store *memory.Store, cache *memory.Cache) catalog.Module {
	return catalog.NewModule(catalog.Dependencies{
		Reader:      store,
		Writer:      store,
		Cache:       cache,
		Clock:       store,
		IDGenerator: store,
		CacheTTL:    time.Minute,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestCatalogLifecycle(t *testing.T) {
	store := memory.NewStore()
	cache := memory.NewCache()
	module := newTestModule(store, cache)
	ctx := context.Background()

	menu, err := module.Handler.CreateMenuHandler(ctx, httptransport.CreateMenuRequest{
		Title: "Lunch", Description: "weekday lunch",
	})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	submenu, err := module.Handler.CreateSubmenuHandler(ctx, menu.ID, httptransport.CreateSubmenuRequest{
		Title: "Soups", Description: "hot",
	})
	if err != nil {
		t.Fatalf("create submenu: %v", err)
	}
	dish, err := module.Handler.CreateDishHandler(ctx, menu.ID, submenu.ID, httptransport.CreateDishRequest{
		Title: "Borscht", Description: "beet soup", Price: "12.50",
	})
	if err != nil {
		t.Fatalf("create dish: %v", err)
	}
	if dish.Price != "12.5" && dish.Price != "12.50" {
		t.Fatalf("dish price %q, want 12.50", dish.Price)
	}

	// Counts are denormalized onto ancestor views.
	menuView, err := module.Handler.GetMenuHandler(ctx, menu.ID)
	if err != nil {
		t.Fatalf("get menu: %v", err)
	}
	if menuView.SubmenusCount != 1 || menuView.DishesCount != 1 {
		t.Fatalf("menu counts %d/%d, want 1/1", menuView.SubmenusCount, menuView.DishesCount)
	}

	dishes, err := module.Handler.ListDishesHandler(ctx, submenu.ID, 0, 10)
	if err != nil {
		t.Fatalf("list dishes: %v", err)
	}
	if len(dishes) != 1 || dishes[0].ID != dish.ID {
		t.Fatalf("dish list %+v, want the created dish", dishes)
	}

	if _, err := module.Handler.DeleteSubmenuHandler(ctx, menu.ID, submenu.ID); err != nil {
		t.Fatalf("delete submenu: %v", err)
	}

	submenus, err := module.Handler.ListSubmenusHandler(ctx, menu.ID, 0, 10)
	if err != nil {
		t.Fatalf("list submenus: %v", err)
	}
	if len(submenus) != 0 {
		t.Fatalf("%d submenus after delete, want 0", len(submenus))
	}
	dishes, err = module.Handler.ListDishesHandler(ctx, submenu.ID, 0, 10)
	if err != nil {
		t.Fatalf("list dishes after cascade: %v", err)
	}
	if len(dishes) != 0 {
		t.Fatalf("%d dishes after cascade, want 0", len(dishes))
	}

	// Every mutation left exactly one outbox row, in creation order.
	rows := store.AllOutbox()
	if len(rows) != 4 {
		t.Fatalf("%d outbox rows, want 4", len(rows))
	}
	wantTopics := []string{events.TopicMenus, events.TopicSubmenus, events.TopicDishes, events.TopicSubmenus}
	for i, want := range wantTopics {
		if rows[i].Topic != want {
			t.Fatalf("row %d on topic %s, want %s", i, rows[i].Topic, want)
		}
	}
	var last events.SubmenuEvent
	if err := json.Unmarshal(rows[3].Payload, &last); err != nil {
		t.Fatalf("decode delete payload: %v", err)
	}
	if last.Action != events.ActionDelete || last.Title != "Soups" {
		t.Fatalf("delete payload %+v must carry the pre-deletion submenu", last)
	}
}

func TestUpdateIsVisibleOnNextRead(t *testing.T) {
	store := memory.NewStore()
	cache := memory.NewCache()
	module := newTestModule(store, cache)
	ctx := context.Background()

	menu, err := module.Handler.CreateMenuHandler(ctx, httptransport.CreateMenuRequest{Title: "Lunch"})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	// Warm the item cache.
	if _, err := module.Handler.GetMenuHandler(ctx, menu.ID); err != nil {
		t.Fatalf("warm read: %v", err)
	}

	title := "Brunch"
	if _, err := module.Handler.UpdateMenuHandler(ctx, menu.ID, httptransport.UpdateMenuRequest{Title: &title}); err != nil {
		t.Fatalf("update menu: %v", err)
	}

	view, err := module.Handler.GetMenuHandler(ctx, menu.ID)
	if err != nil {
		t.Fatalf("read after update: %v", err)
	}
	if view.Title != "Brunch" {
		t.Fatalf("got stale title %q after update", view.Title)
	}
}
