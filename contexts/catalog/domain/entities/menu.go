package entities

import "time"

type Menu struct {
	MenuID      string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MenuPatch carries a partial update; nil fields are left unchanged.
type MenuPatch struct {
	Title       *string
	Description *string
}

// MenuView is the read-side shape of a menu. The counts denormalize
// descendant data, which is why any submenu or dish mutation has to purge
// cached menu views.
type MenuView struct {
	Menu
	SubmenusCount int
	DishesCount   int
}
