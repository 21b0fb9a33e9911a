package postgresadapter

import (
	"time"

	"carte/contexts/catalog/domain/entities"

	"github.com/shopspring/decimal"
)

type menuModel struct {
	MenuID      string    `gorm:"column:menu_id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (menuModel) TableName() string {
	return "menus"
}

func (m menuModel) toEntity() entities.Menu {
	return entities.Menu{
		MenuID:      m.MenuID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func menuModelFromEntity(menu entities.Menu) menuModel {
	return menuModel{
		MenuID:      menu.MenuID,
		Title:       menu.Title,
		Description: menu.Description,
		CreatedAt:   menu.CreatedAt.UTC(),
		UpdatedAt:   menu.UpdatedAt.UTC(),
	}
}

type submenuModel struct {
	SubmenuID   string    `gorm:"column:submenu_id;primaryKey"`
	MenuID      string    `gorm:"column:menu_id"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (submenuModel) TableName() string {
	return "submenus"
}

func (m submenuModel) toEntity() entities.Submenu {
	return entities.Submenu{
		SubmenuID:   m.SubmenuID,
		MenuID:      m.MenuID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func submenuModelFromEntity(submenu entities.Submenu) submenuModel {
	return submenuModel{
		SubmenuID:   submenu.SubmenuID,
		MenuID:      submenu.MenuID,
		Title:       submenu.Title,
		Description: submenu.Description,
		CreatedAt:   submenu.CreatedAt.UTC(),
		UpdatedAt:   submenu.UpdatedAt.UTC(),
	}
}

type dishModel struct {
	DishID      string          `gorm:"column:dish_id;primaryKey"`
	SubmenuID   string          `gorm:"column:submenu_id"`
	Title       string          `gorm:"column:title"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (dishModel) TableName() string {
	return "dishes"
}

func (m dishModel) toEntity() entities.Dish {
	return entities.Dish{
		DishID:      m.DishID,
		SubmenuID:   m.SubmenuID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func dishModelFromEntity(dish entities.Dish) dishModel {
	return dishModel{
		DishID:      dish.DishID,
		SubmenuID:   dish.SubmenuID,
		Title:       dish.Title,
		Description: dish.Description,
		Price:       dish.Price,
		CreatedAt:   dish.CreatedAt.UTC(),
		UpdatedAt:   dish.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	Topic       string     `gorm:"column:topic"`
	Key         string     `gorm:"column:key"`
	Value       []byte     `gorm:"column:value;type:jsonb"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "catalog_outbox"
}
