package memory

import (
	"context"
	"errors"
	"testing"

	"carte/contexts/catalog/domain/entities"
	domainerrors "carte/contexts/catalog/domain/errors"

	"github.com/shopspring/decimal"
)

func seedTree(t *testing.T, store *Store) (menuID, submenuID, dishID string) {
	t.Helper()
	ctx := context.Background()
	now := store.Now()

	menu, _, err := store.CreateMenu(ctx, entities.Menu{
		MenuID: "menu-1", Title: "Lunch", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	submenu, _, err := store.CreateSubmenu(ctx, entities.Submenu{
		SubmenuID: "submenu-1", MenuID: menu.MenuID, Title: "Soups", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create submenu: %v", err)
	}
	dish, _, err := store.CreateDish(ctx, entities.Dish{
		DishID: "dish-1", SubmenuID: submenu.SubmenuID, Title: "Borscht",
		Price: decimal.RequireFromString("5.00"), CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create dish: %v", err)
	}
	return menu.MenuID, submenu.SubmenuID, dish.DishID
}

func TestViewsCarryDescendantCounts(t *testing.T) {
	store := NewStore()
	menuID, submenuID, _ := seedTree(t, store)
	ctx := context.Background()

	menuView, err := store.GetMenu(ctx, menuID)
	if err != nil {
		t.Fatalf("get menu: %v", err)
	}
	if menuView.SubmenusCount != 1 || menuView.DishesCount != 1 {
		t.Fatalf("menu counts %d/%d, want 1/1", menuView.SubmenusCount, menuView.DishesCount)
	}

	submenuView, err := store.GetSubmenu(ctx, submenuID)
	if err != nil {
		t.Fatalf("get submenu: %v", err)
	}
	if submenuView.DishesCount != 1 {
		t.Fatalf("submenu dish count %d, want 1", submenuView.DishesCount)
	}
}

func TestCreateSubmenuRequiresParentMenu(t *testing.T) {
	store := NewStore()
	_, _, err := store.CreateSubmenu(context.Background(), entities.Submenu{
		SubmenuID: "submenu-1", MenuID: "missing", Title: "Soups",
	})
	if !errors.Is(err, domainerrors.ErrMenuNotFound) {
		t.Fatalf("got %v, want menu not found", err)
	}
}

func TestDeleteSubmenuCascadesToDishes(t *testing.T) {
	store := NewStore()
	_, submenuID, dishID := seedTree(t, store)
	ctx := context.Background()

	if _, _, err := store.DeleteSubmenu(ctx, submenuID); err != nil {
		t.Fatalf("delete submenu: %v", err)
	}
	if _, err := store.GetDish(ctx, dishID); !errors.Is(err, domainerrors.ErrDishNotFound) {
		t.Fatalf("dish survived submenu delete: %v", err)
	}
}

func TestListMenusPaginates(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for _, id := range []string{"menu-a", "menu-b", "menu-c"} {
		now := store.Now()
		if _, _, err := store.CreateMenu(ctx, entities.Menu{
			MenuID: id, Title: id, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	page, err := store.ListMenus(ctx, 1, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 1 || page[0].MenuID != "menu-b" {
		t.Fatalf("page %+v, want the single middle menu", page)
	}

	past, err := store.ListMenus(ctx, 10, 5)
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("got %d items past the end, want 0", len(past))
	}
}

func TestMarkOutboxPublishedClaimsOnce(t *testing.T) {
	store := NewStore()
	seedTree(t, store)
	ctx := context.Background()

	pending, err := store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("%d rows pending, want 3", len(pending))
	}

	publishedAt := store.Now()
	claimed, err := store.MarkOutboxPublished(ctx, pending[0].OutboxID, publishedAt)
	if err != nil || !claimed {
		t.Fatalf("first mark claimed=%v err=%v, want a clean claim", claimed, err)
	}
	claimed, err = store.MarkOutboxPublished(ctx, pending[0].OutboxID, publishedAt)
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if claimed {
		t.Fatal("a row must only be claimable once")
	}

	remaining, err := store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("%d rows pending after claim, want 2", len(remaining))
	}
}
