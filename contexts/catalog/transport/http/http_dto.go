package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateMenuRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateMenuRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type MenuDTO struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	SubmenusCount int    `json:"submenus_count"`
	DishesCount   int    `json:"dishes_count"`
}

type CreateSubmenuRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateSubmenuRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type SubmenuDTO struct {
	ID          string `json:"id"`
	MenuID      string `json:"menu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DishesCount int    `json:"dishes_count"`
}

type CreateDishRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type UpdateDishRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
}

type DishDTO struct {
	ID          string `json:"id"`
	SubmenuID   string `json:"submenu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}
