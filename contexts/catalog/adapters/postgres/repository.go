package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"carte/contexts/catalog/domain/entities"
	domainerrors "carte/contexts/catalog/domain/errors"
	"carte/contexts/catalog/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Menu views aggregate descendant counts the way the cached API responses
// expose them; the counts are what make ancestor cache keys stale when a
// child changes.
const menuViewSelect = `
SELECT m.menu_id, m.title, m.description, m.created_at, m.updated_at,
       COUNT(DISTINCT s.submenu_id) AS submenus_count,
       COUNT(DISTINCT d.dish_id)    AS dishes_count
FROM menus m
LEFT JOIN submenus s ON s.menu_id = m.menu_id
LEFT JOIN dishes d   ON d.submenu_id = s.submenu_id
`

type menuViewRow struct {
	MenuID        string
	Title         string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SubmenusCount int
	DishesCount   int
}

func (row menuViewRow) toView() entities.MenuView {
	return entities.MenuView{
		Menu: entities.Menu{
			MenuID:      row.MenuID,
			Title:       row.Title,
			Description: row.Description,
			CreatedAt:   row.CreatedAt.UTC(),
			UpdatedAt:   row.UpdatedAt.UTC(),
		},
		SubmenusCount: row.SubmenusCount,
		DishesCount:   row.DishesCount,
	}
}

func (r *Repository) GetMenu(ctx context.Context, menuID string) (entities.MenuView, error) {
	var row menuViewRow
	result := r.db.WithContext(ctx).
		Raw(menuViewSelect+"WHERE m.menu_id = ? GROUP BY m.menu_id", strings.TrimSpace(menuID)).
		Scan(&row)
	if result.Error != nil {
		return entities.MenuView{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.MenuView{}, domainerrors.ErrMenuNotFound
	}
	return row.toView(), nil
}

func (r *Repository) ListMenus(ctx context.Context, skip, limit int) ([]entities.MenuView, error) {
	var rows []menuViewRow
	err := r.db.WithContext(ctx).
		Raw(menuViewSelect+"GROUP BY m.menu_id ORDER BY m.menu_id LIMIT ? OFFSET ?", limit, skip).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.MenuView, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toView())
	}
	return items, nil
}

const submenuViewSelect = `
SELECT s.submenu_id, s.menu_id, s.title, s.description, s.created_at, s.updated_at,
       COUNT(d.dish_id) AS dishes_count
FROM submenus s
LEFT JOIN dishes d ON d.submenu_id = s.submenu_id
`

type submenuViewRow struct {
	SubmenuID   string
	MenuID      string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DishesCount int
}

func (row submenuViewRow) toView() entities.SubmenuView {
	return entities.SubmenuView{
		Submenu: entities.Submenu{
			SubmenuID:   row.SubmenuID,
			MenuID:      row.MenuID,
			Title:       row.Title,
			Description: row.Description,
			CreatedAt:   row.CreatedAt.UTC(),
			UpdatedAt:   row.UpdatedAt.UTC(),
		},
		DishesCount: row.DishesCount,
	}
}

func (r *Repository) GetSubmenu(ctx context.Context, submenuID string) (entities.SubmenuView, error) {
	var row submenuViewRow
	result := r.db.WithContext(ctx).
		Raw(submenuViewSelect+"WHERE s.submenu_id = ? GROUP BY s.submenu_id", strings.TrimSpace(submenuID)).
		Scan(&row)
	if result.Error != nil {
		return entities.SubmenuView{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.SubmenuView{}, domainerrors.ErrSubmenuNotFound
	}
	return row.toView(), nil
}

func (r *Repository) ListSubmenus(ctx context.Context, menuID string, skip, limit int) ([]entities.SubmenuView, error) {
	var rows []submenuViewRow
	err := r.db.WithContext(ctx).
		Raw(submenuViewSelect+"WHERE s.menu_id = ? GROUP BY s.submenu_id ORDER BY s.submenu_id LIMIT ? OFFSET ?",
			strings.TrimSpace(menuID), limit, skip).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.SubmenuView, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toView())
	}
	return items, nil
}

func (r *Repository) GetDish(ctx context.Context, dishID string) (entities.Dish, error) {
	var row dishModel
	err := r.db.WithContext(ctx).
		Where("dish_id = ?", strings.TrimSpace(dishID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Dish{}, domainerrors.ErrDishNotFound
		}
		return entities.Dish{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListDishes(ctx context.Context, submenuID string, skip, limit int) ([]entities.Dish, error) {
	var rows []dishModel
	err := r.db.WithContext(ctx).
		Where("submenu_id = ?", strings.TrimSpace(submenuID)).
		Order("dish_id").
		Limit(limit).
		Offset(skip).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Dish, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.ID,
			Topic:     row.Topic,
			Key:       row.Key,
			Payload:   append([]byte(nil), row.Value...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

// MarkOutboxPublished flips a row out of the pending set; the status
// precondition makes the claim exclusive, so a relay racing another instance
// observes claimed == false rather than finishing the row twice.
func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ? AND status = ?", strings.TrimSpace(outboxID), outboxStatusPending).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func applyTextPatch(updates map[string]any, title, description *string) {
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
}

func decimalString(value decimal.Decimal) string {
	return value.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
