package menu

import "github.com/nagpalarpit/POS-WaiterApp/internal/cart"

// Canonical menu shapes. Everything the cart flow consumes goes through
// Normalize* first, so variants/attributes/values are always present, named,
// and numerically well-typed.

type Category struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Tax       *cart.TaxRule `json:"tax,omitempty"`
	MenuItems []MenuItem    `json:"menuItems"`
}

type MenuItem struct {
	ID               int       `json:"id"`
	CustomID         int       `json:"customId"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	ImagePath        string    `json:"imagePath,omitempty"`
	Price            float64   `json:"price"`
	SKU              string    `json:"sku,omitempty"`
	MenuItemVariants []Variant `json:"menuItemVariants"`
}

type Variant struct {
	ID                        int         `json:"id"`
	Name                      string      `json:"name"`
	Price                     float64     `json:"price"`
	Description               string      `json:"description,omitempty"`
	MenuItemVariantAttributes []Attribute `json:"menuItemVariantAttributes"`
}

type Attribute struct {
	ID                             int     `json:"id"`
	Name                           string  `json:"name"`
	Price                          float64 `json:"price"`
	SelectionTypeID                int     `json:"selectionTypeId"`
	MenuItemVariantAttributeValues []Value `json:"menuItemVariantAttributeValues"`
}

type Value struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}
