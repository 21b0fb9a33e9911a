package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"carte/contexts/catalog/domain/entities"
	domainerrors "carte/contexts/catalog/domain/errors"
	"carte/contexts/catalog/domain/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Every mutation below runs one transaction that writes the entity rows and
// appends exactly one outbox row describing the change. Publishing straight
// to the broker from request handling cannot be made atomic with the commit;
// routing the event through a row in the same transaction removes that race.

// appendOutbox is the outbox half of the transactional writer. The payload is
// the post-image for create/update and the pre-image for delete.
func appendOutbox(tx *gorm.DB, topic, key string, payload any, at time.Time) (string, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	row := outboxModel{
		ID:        uuid.NewString(),
		Topic:     topic,
		Key:       key,
		Value:     value,
		Status:    outboxStatusPending,
		CreatedAt: at.UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

func (r *Repository) CreateMenu(ctx context.Context, menu entities.Menu) (entities.Menu, string, error) {
	row := menuModelFromEntity(menu)
	var outboxID string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidMenuInput
			}
			return err
		}
		id, err := appendOutbox(tx, events.TopicMenus, row.MenuID, events.MenuEvent{
			Action:      events.ActionCreate,
			MenuID:      row.MenuID,
			Title:       row.Title,
			Description: row.Description,
		}, row.CreatedAt)
		if err != nil {
			return err
		}
		outboxID = id
		return nil
	})
	if err != nil {
		return entities.Menu{}, "", err
	}
	return row.toEntity(), outboxID, nil
}

func (r *Repository) UpdateMenu(ctx context.Context, menuID string, patch entities.MenuPatch) (entities.Menu, string, error) {
	menuID = strings.TrimSpace(menuID)
	var (
		updated  entities.Menu
		outboxID string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row menuModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("menu_id = ?", menuID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrMenuNotFound
			}
			return err
		}

		now := time.Now().UTC()
		updates := map[string]any{"updated_at": now}
		applyTextPatch(updates, patch.Title, patch.Description)
		if err := tx.Model(&menuModel{}).
			Where("menu_id = ?", menuID).
			Updates(updates).
			Error; err != nil {
			return err
		}

		if patch.Title != nil {
			row.Title = *patch.Title
		}
		if patch.Description != nil {
			row.Description = *patch.Description
		}
		row.UpdatedAt = now

		id, err := appendOutbox(tx, events.TopicMenus, row.MenuID, events.MenuEvent{
			Action:      events.ActionUpdate,
			MenuID:      row.MenuID,
			Title:       row.Title,
			Description: row.Description,
		}, now)
		if err != nil {
			return err
		}
		outboxID = id
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Menu{}, "", err
	}
	return updated, outboxID, nil
}

func (r *Repository) DeleteMenu(ctx context.Context, menuID string) (entities.Menu, string, error) {
	menuID = strings.TrimSpace(menuID)
	var (
		deleted  entities.Menu
		outboxID string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row menuModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("menu_id = ?", menuID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrMenuNotFound
			}
			return err
		}

		// Cascade inside the same transaction: dishes under the menu's
		// submenus, then the submenus, then the menu itself.
		var submenuIDs []string
		if err := tx.Model(&submenuModel{}).
			Where("menu_id = ?", menuID).
			Pluck("submenu_id", &submenuIDs).
			Error; err != nil {
			return err
		}
		if len(submenuIDs) > 0 {
			if err := tx.Where("submenu_id IN ?", submenuIDs).Delete(&dishModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("menu_id = ?", menuID).Delete(&submenuModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("menu_id = ?", menuID).Delete(&menuModel{}).Error; err != nil {
			return err
		}

		id, err := appendOutbox(tx, events.TopicMenus, row.MenuID, events.MenuEvent{
			Action:      events.ActionDelete,
			MenuID:      row.MenuID,
			Title:       row.Title,
			Description: row.Description,
		}, time.Now().UTC())
		if err != nil {
			return err
		}
		outboxID = id
		deleted = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Menu{}, "", err
	}
	return deleted, outboxID, nil
}

func (r *Repository) CreateSubmenu(ctx context.Context, submenu entities.Submenu) (entities.Submenu, string, error) {
	row := submenuModelFromEntity(submenu)
	var outboxID string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domainerrors.ErrMenuNotFound
			}
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidSubmenuInput
			}
			return err
		}
		id, err := appendOutbox(tx, events.TopicSubmenus, row.SubmenuID, events.SubmenuEvent{
			Action:      events.ActionCreate,
			SubmenuID:   row.SubmenuID,
			Title:       row.Title,
			Description: row.Description,
		}, row.CreatedAt)
		if err != nil {
			return err
		}
		outboxID = id
		return nil
	})
	if err != nil {
		return entities.Submenu{}, "", err
	}
	return row.toEntity(), outboxID, nil
}

func (r *Repository) UpdateSubmenu(ctx context.Context, submenuID string, patch entities.SubmenuPatch) (entities.Submenu, string, error) {
	submenuID = strings.TrimSpace(submenuID)
	var (
		updated  entities.Submenu
		outboxID string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row submenuModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("submenu_id = ?", submenuID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrSubmenuNotFound
			}
			return err
		}

		now := time.Now().UTC()
		updates := map[string]any{"updated_at": now}
		applyTextPatch(updates, patch.Title, patch.Description)
		if err := tx.Model(&submenuModel{}).
			Where("submenu_id = ?", submenuID).
			Updates(updates).
			Error; err != nil {
			return err
		}

		if patch.Title != nil {
			row.Title = *patch.Title
		}
		if patch.Description != nil {
			row.Description = *patch.Description
		}
		row.UpdatedAt = now

		id, err := appendOutbox(tx, events.TopicSubmenus, row.SubmenuID, events.SubmenuEvent{
			Action:      events.ActionUpdate,
			SubmenuID:   row.SubmenuID,
			Title:       row.Title,
			Description: row.Description,
		}, now)
		if err != nil {
			return err
		}
		outboxID = id
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Submenu{}, "", err
	}
	return updated, outboxID, nil
}

func (r *Repository) DeleteSubmenu(ctx context.Context, submenuID string) (entities.Submenu, string, error) {
	submenuID = strings.TrimSpace(submenuID)
	var (
		deleted  entities.Submenu
		outboxID string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row submenuModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("submenu_id = ?", submenuID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrSubmenuNotFound
			}
			return err
		}

		if err := tx.Where("submenu_id = ?", submenuID).Delete(&dishModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submenu_id = ?", submenuID).Delete(&submenuModel{}).Error; err != nil {
			return err
		}

		id, err := appendOutbox(tx, events.TopicSubmenus, row.SubmenuID, events.SubmenuEvent{
			Action:      events.ActionDelete,
			SubmenuID:   row.SubmenuID,
			Title:       row.Title,
			Description: row.Description,
		}, time.Now().UTC())
		if err != nil {
			return err
		}
		outboxID = id
		deleted = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Submenu{}, "", err
	}
	return deleted, outboxID, nil
}

func (r *Repository) CreateDish(ctx context.Context, dish entities.Dish) (entities.Dish, string, error) {
	row := dishModelFromEntity(dish)
	var outboxID string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domainerrors.ErrSubmenuNotFound
			}
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidDishInput
			}
			return err
		}
		id, err := appendOutbox(tx, events.TopicDishes, row.DishID, events.DishEvent{
			Action:      events.ActionCreate,
			DishID:      row.DishID,
			Title:       row.Title,
			Description: row.Description,
			Price:       decimalString(row.Price),
		}, row.CreatedAt)
		if err != nil {
			return err
		}
		outboxID = id
		return nil
	})
	if err != nil {
		return entities.Dish{}, "", err
	}
	return row.toEntity(), outboxID, nil
}

func (r *Repository) UpdateDish(ctx context.Context, dishID string, patch entities.DishPatch) (entities.Dish, string, error) {
	dishID = strings.TrimSpace(dishID)
	var (
		updated  entities.Dish
		outboxID string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row dishModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("dish_id = ?", dishID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrDishNotFound
			}
			return err
		}

		now := time.Now().UTC()
		updates := map[string]any{"updated_at": now}
		applyTextPatch(updates, patch.Title, patch.Description)
		if patch.Price != nil {
			updates["price"] = *patch.Price
		}
		if err := tx.Model(&dishModel{}).
			Where("dish_id = ?", dishID).
			Updates(updates).
			Error; err != nil {
			return err
		}

		if patch.Title != nil {
			row.Title = *patch.Title
		}
		if patch.Description != nil {
			row.Description = *patch.Description
		}
		if patch.Price != nil {
			row.Price = *patch.Price
		}
		row.UpdatedAt = now

		id, err := appendOutbox(tx, events.TopicDishes, row.DishID, events.DishEvent{
			Action:      events.ActionUpdate,
			DishID:      row.DishID,
			Title:       row.Title,
			Description: row.Description,
			Price:       decimalString(row.Price),
		}, now)
		if err != nil {
			return err
		}
		outboxID = id
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Dish{}, "", err
	}
	return updated, outboxID, nil
}

func (r *Repository) DeleteDish(ctx context.Context, dishID string) (entities.Dish, string, error) {
	dishID = strings.TrimSpace(dishID)
	var (
		deleted  entities.Dish
		outboxID string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row dishModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("dish_id = ?", dishID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrDishNotFound
			}
			return err
		}

		if err := tx.Where("dish_id = ?", dishID).Delete(&dishModel{}).Error; err != nil {
			return err
		}

		id, err := appendOutbox(tx, events.TopicDishes, row.DishID, events.DishEvent{
			Action:      events.ActionDelete,
			DishID:      row.DishID,
			Title:       row.Title,
			Description: row.Description,
			Price:       decimalString(row.Price),
		}, time.Now().UTC())
		if err != nil {
			return err
		}
		outboxID = id
		deleted = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Dish{}, "", err
	}
	return deleted, outboxID, nil
}
