package cart

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFlat       DiscountType = "FLAT"
)

// TaxRule is the category-level tax reference carried onto cart lines. A
// nonzero percentage wins over a flat amount.
type TaxRule struct {
	Percentage float64 `json:"percentage,omitempty"`
	FlatAmount float64 `json:"flatAmount,omitempty"`
}

type CartDiscount struct {
	DiscountName  string       `json:"discountName,omitempty"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}

// AttributeValue is one selected option on a cart line. Persisted carts from
// older app builds used the short field names (id/name/price/quantity), newer
// ones the attributeValue* names, so both are kept and read through the
// accessor chain in pricing.go.
type AttributeValue struct {
	ID                        int      `json:"id,omitempty"`
	AttributeValueID          int      `json:"attributeValueId,omitempty"`
	Name                      string   `json:"name,omitempty"`
	AttributeValueName        string   `json:"attributeValueName,omitempty"`
	Price                     *float64 `json:"price,omitempty"`
	AttributeValuePrice       *float64 `json:"attributeValuePrice,omitempty"`
	UnitPrice                 *float64 `json:"unitPrice,omitempty"`
	Quantity                  *float64 `json:"quantity,omitempty"`
	AttributeValueQuantity    *float64 `json:"attributeValueQuantity,omitempty"`
	AttributeValueDescription string   `json:"attributeValueDescription,omitempty"`
}

// CartItem is one priced cart line. CartID is derived from the immutable
// selection fields (never from quantity), see identity.go.
type CartItem struct {
	CartID string `json:"cartId,omitempty"`

	CategoryID   int     `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	CustomID     int     `json:"customId"`
	ItemID       int     `json:"itemId"`
	ItemName     string  `json:"itemName"`
	ItemPrice    float64 `json:"itemPrice"`

	VariantID    int     `json:"variantId,omitempty"`
	VariantName  string  `json:"variantName,omitempty"`
	VariantPrice float64 `json:"variantPrice,omitempty"`

	AttributeID    int     `json:"attributeId,omitempty"`
	AttributeName  string  `json:"attributeName,omitempty"`
	AttributePrice float64 `json:"attributePrice,omitempty"`

	AttributeValues []AttributeValue `json:"attributeValues,omitempty"`

	Quantity      float64 `json:"quantity"`
	OrderItemNote string  `json:"orderItemNote,omitempty"`

	Tax        *TaxRule `json:"tax,omitempty"`
	GroupType  int      `json:"groupType"`
	GroupLabel string   `json:"groupLabel,omitempty"`
}

// Cart holds the lines most-recently-added first. OrderNote and Discount are
// cleared whenever the last line is removed.
type Cart struct {
	Items     []CartItem    `json:"items"`
	OrderNote string        `json:"orderNote"`
	Discount  *CartDiscount `json:"discount"`
}

func EmptyCart() Cart {
	return Cart{Items: []CartItem{}, OrderNote: "", Discount: nil}
}

// References passed into Service.AddItem by the caller after the waiter has
// resolved a selection. They mirror the fields the menu service exposes.

type CategoryRef struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Tax  *TaxRule `json:"tax,omitempty"`
}

type ItemRef struct {
	ID       int     `json:"id"`
	CustomID int     `json:"customId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
}

// OptionRef identifies a chosen variant or attribute.
type OptionRef struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SelectedValue is an attribute value picked in the item-details flow, before
// it is committed onto a cart line.
type SelectedValue struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
