package caching

import "fmt"

// Cache keys are structured, not opaque. List keys embed the scope and the
// paging pair; because the set of paging pairs is unbounded, invalidation
// purges by the per-kind list prefix instead of enumerating keys.
const (
	MenuListPrefix    = "menu_list_"
	SubmenuListPrefix = "submenu_list_"
	DishListPrefix    = "dish_list_"
)

func MenuListKey(skip, limit int) string {
	return fmt.Sprintf("%sskip:%d_limit:%d", MenuListPrefix, skip, limit)
}

func MenuItemKey(menuID string) string {
	return "menu_item_" + menuID
}

func SubmenuListKey(menuID string, skip, limit int) string {
	return fmt.Sprintf("%smenu:%s_skip:%d_limit:%d", SubmenuListPrefix, menuID, skip, limit)
}

func SubmenuItemKey(submenuID string) string {
	return "submenu_item_" + submenuID
}

func DishListKey(submenuID string, skip, limit int) string {
	return fmt.Sprintf("%ssubmenu:%s_skip:%d_limit:%d", DishListPrefix, submenuID, skip, limit)
}

func DishItemKey(dishID string) string {
	return "dish_item_" + dishID
}
