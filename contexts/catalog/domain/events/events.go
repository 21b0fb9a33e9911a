package events

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// One topic per entity kind; consumers key on the entity id for per-entity
// ordering.
const (
	TopicMenus    = "menu_topic"
	TopicSubmenus = "submenu_topic"
	TopicDishes   = "dish_topic"
)

// Event payloads carry the post-mutation field values for create/update and
// the pre-deletion values for delete, so downstream consumers can run
// compensating logic.

type MenuEvent struct {
	Action      Action `json:"action"`
	MenuID      string `json:"menu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SubmenuEvent struct {
	Action      Action `json:"action"`
	SubmenuID   string `json:"submenu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type DishEvent struct {
	Action      Action `json:"action"`
	DishID      string `json:"dish_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}
