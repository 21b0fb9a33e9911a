package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dish struct {
	DishID      string
	SubmenuID   string
	Title       string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DishPatch struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
}
