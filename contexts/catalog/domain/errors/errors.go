package errors

import "errors"

var (
	ErrMenuNotFound        = errors.New("menu not found")
	ErrSubmenuNotFound     = errors.New("submenu not found")
	ErrDishNotFound        = errors.New("dish not found")
	ErrInvalidMenuInput    = errors.New("invalid menu input")
	ErrInvalidSubmenuInput = errors.New("invalid submenu input")
	ErrInvalidDishInput    = errors.New("invalid dish input")
	ErrInvalidDishPrice    = errors.New("dish price must not be negative")
)
