package ports

import (
	"context"
	"time"

	"carte/contexts/catalog/domain/entities"
)

// CatalogReader serves read requests. Reads run outside any transaction;
// lists are ordered by entity id with offset/limit pagination.
type CatalogReader interface {
	GetMenu(ctx context.Context, menuID string) (entities.MenuView, error)
	ListMenus(ctx context.Context, skip, limit int) ([]entities.MenuView, error)
	GetSubmenu(ctx context.Context, submenuID string) (entities.SubmenuView, error)
	ListSubmenus(ctx context.Context, menuID string, skip, limit int) ([]entities.SubmenuView, error)
	GetDish(ctx context.Context, dishID string) (entities.Dish, error)
	ListDishes(ctx context.Context, submenuID string, skip, limit int) ([]entities.Dish, error)
}

// CatalogWriter commits each mutation and its outbox row in a single
// transaction; both persist or neither does. The returned string is the id of
// the outbox row appended for the mutation. Update/Delete on a missing id
// roll back with the matching not-found error and no side effects. Menu and
// submenu deletes cascade to their descendants inside the same transaction.
type CatalogWriter interface {
	CreateMenu(ctx context.Context, menu entities.Menu) (entities.Menu, string, error)
	UpdateMenu(ctx context.Context, menuID string, patch entities.MenuPatch) (entities.Menu, string, error)
	DeleteMenu(ctx context.Context, menuID string) (entities.Menu, string, error)

	CreateSubmenu(ctx context.Context, submenu entities.Submenu) (entities.Submenu, string, error)
	UpdateSubmenu(ctx context.Context, submenuID string, patch entities.SubmenuPatch) (entities.Submenu, string, error)
	DeleteSubmenu(ctx context.Context, submenuID string) (entities.Submenu, string, error)

	CreateDish(ctx context.Context, dish entities.Dish) (entities.Dish, string, error)
	UpdateDish(ctx context.Context, dishID string, patch entities.DishPatch) (entities.Dish, string, error)
	DeleteDish(ctx context.Context, dishID string) (entities.Dish, string, error)
}

type OutboxMessage struct {
	OutboxID  string
	Topic     string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository is consumed by the relay. MarkOutboxPublished only claims
// rows still pending, so a second relay instance racing the first observes
// claimed == false instead of finishing the row twice.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) (claimed bool, err error)
}

// CacheStore holds serialized read responses. Every operation is safe for
// concurrent use; failures are treated as a cache bypass by callers, never as
// a request failure.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
