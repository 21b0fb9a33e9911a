package queries

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"carte/contexts/catalog/adapters/memory"
	"carte/contexts/catalog/domain/entities"
	domainerrors "carte/contexts/catalog/domain/errors"
	"carte/contexts/catalog/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingReader counts trips to the backing store so tests can tell a cache
// hit from a recompute.
type countingReader struct {
	inner ports.CatalogReader
	calls int
}

func (r *countingReader) GetMenu(ctx context.Context, menuID string) (entities.MenuView, error) {
	r.calls++
	return r.inner.GetMenu(ctx, menuID)
}

func (r *countingReader) ListMenus(ctx context.Context, skip, limit int) ([]entities.MenuView, error) {
	r.calls++
	return r.inner.ListMenus(ctx, skip, limit)
}

func (r *countingReader) GetSubmenu(ctx context.Context, submenuID string) (entities.SubmenuView, error) {
	r.calls++
	return r.inner.GetSubmenu(ctx, submenuID)
}

func (r *countingReader) ListSubmenus(ctx context.Context, menuID string, skip, limit int) ([]entities.SubmenuView, error) {
	r.calls++
	return r.inner.ListSubmenus(ctx, menuID, skip, limit)
}

func (r *countingReader) GetDish(ctx context.Context, dishID string) (entities.Dish, error) {
	r.calls++
	return r.inner.GetDish(ctx, dishID)
}

func (r *countingReader) ListDishes(ctx context.Context, submenuID string, skip, limit int) ([]entities.Dish, error) {
	r.calls++
	return r.inner.ListDishes(ctx, submenuID, skip, limit)
}

func seedMenu(t *testing.T, store *memory.Store, title string) entities.Menu {
	t.Helper()
	now := store.Now()
	id, _ := store.NewID(context.Background())
	menu, _, err := store.CreateMenu(context.Background(), entities.Menu{
		MenuID:      id,
		Title:       title,
		Description: "d",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	return menu
}

func TestGetMenuSecondReadIsCacheServed(t *testing.T) {
	store := memory.NewStore()
	menu := seedMenu(t, store, "Lunch")

	reader := &countingReader{inner: store}
	uc := GetMenuUseCase{Repo: reader, Cache: memory.NewCache(), CacheTTL: time.Minute, Logger: testLogger()}

	first, err := uc.Execute(context.Background(), menu.MenuID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := uc.Execute(context.Background(), menu.MenuID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("store hit %d times, want 1", reader.calls)
	}
	if first.MenuID != second.MenuID || first.Title != second.Title ||
		!first.CreatedAt.Equal(second.CreatedAt) {
		t.Fatalf("cache round trip changed the view: %+v vs %+v", first, second)
	}
}

func TestGetMenuNotFoundIsNotCached(t *testing.T) {
	store := memory.NewStore()
	cache := memory.NewCache()
	reader := &countingReader{inner: store}
	uc := GetMenuUseCase{Repo: reader, Cache: cache, CacheTTL: time.Minute, Logger: testLogger()}

	if _, err := uc.Execute(context.Background(), "missing"); !errors.Is(err, domainerrors.ErrMenuNotFound) {
		t.Fatalf("got %v, want menu not found", err)
	}

	// Entity appears after the miss; the next read must see it.
	now := store.Now()
	if _, _, err := store.CreateMenu(context.Background(), entities.Menu{
		MenuID: "missing", Title: "Late", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("late create: %v", err)
	}
	view, err := uc.Execute(context.Background(), "missing")
	if err != nil {
		t.Fatalf("read after create: %v", err)
	}
	if view.Title != "Late" {
		t.Fatalf("got %q, a cached miss is masking the new entity", view.Title)
	}
}

func TestListMenusNormalizesPagingBeforeCacheKey(t *testing.T) {
	store := memory.NewStore()
	seedMenu(t, store, "Lunch")

	reader := &countingReader{inner: store}
	uc := ListMenusUseCase{Repo: reader, Cache: memory.NewCache(), CacheTTL: time.Minute, Logger: testLogger()}

	if _, err := uc.Execute(context.Background(), -5, 0); err != nil {
		t.Fatalf("first read: %v", err)
	}
	// Equivalent after normalization, must land on the same cache slot.
	if _, err := uc.Execute(context.Background(), 0, defaultListLimit); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("store hit %d times, want 1 shared cache slot", reader.calls)
	}
}

func TestListDishesScopedBySubmenu(t *testing.T) {
	store := memory.NewStore()
	menu := seedMenu(t, store, "Lunch")

	mkSubmenu := func(title string) entities.Submenu {
		id, _ := store.NewID(context.Background())
		now := store.Now()
		submenu, _, err := store.CreateSubmenu(context.Background(), entities.Submenu{
			SubmenuID: id, MenuID: menu.MenuID, Title: title, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("seed submenu: %v", err)
		}
		return submenu
	}
	first := mkSubmenu("Soups")
	second := mkSubmenu("Salads")

	id, _ := store.NewID(context.Background())
	now := store.Now()
	if _, _, err := store.CreateDish(context.Background(), entities.Dish{
		DishID: id, SubmenuID: first.SubmenuID, Title: "Borscht", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed dish: %v", err)
	}

	uc := ListDishesUseCase{Repo: store, Cache: memory.NewCache(), CacheTTL: time.Minute, Logger: testLogger()}
	inFirst, err := uc.Execute(context.Background(), first.SubmenuID, 0, 10)
	if err != nil {
		t.Fatalf("list first: %v", err)
	}
	inSecond, err := uc.Execute(context.Background(), second.SubmenuID, 0, 10)
	if err != nil {
		t.Fatalf("list second: %v", err)
	}
	if len(inFirst) != 1 || len(inSecond) != 0 {
		t.Fatalf("scoped lists leaked: %d in first, %d in second", len(inFirst), len(inSecond))
	}
}

func TestGetSubmenuDegradesWhenCacheDown(t *testing.T) {
	store := memory.NewStore()
	menu := seedMenu(t, store, "Lunch")
	id, _ := store.NewID(context.Background())
	now := store.Now()
	submenu, _, err := store.CreateSubmenu(context.Background(), entities.Submenu{
		SubmenuID: id, MenuID: menu.MenuID, Title: "Soups", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed submenu: %v", err)
	}

	cache := memory.NewCache()
	cache.FailWith(errors.New("cache down"))
	uc := GetSubmenuUseCase{Repo: store, Cache: cache, CacheTTL: time.Minute, Logger: testLogger()}

	view, err := uc.Execute(context.Background(), submenu.SubmenuID)
	if err != nil {
		t.Fatalf("read must survive a dead cache, got %v", err)
	}
	if view.SubmenuID != submenu.SubmenuID {
		t.Fatalf("got %q, want %q", view.SubmenuID, submenu.SubmenuID)
	}
}
