package entities

import "time"

type Submenu struct {
	SubmenuID   string
	MenuID      string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SubmenuPatch struct {
	Title       *string
	Description *string
}

type SubmenuView struct {
	Submenu
	DishesCount int
}
