package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, 12.5, CoerceNumber(12.5, 0))
	assert.Equal(t, 3.0, CoerceNumber(3, 0))
	assert.Equal(t, 12.5, CoerceNumber("12.5", 0))
	assert.Equal(t, 12.5, CoerceNumber(" 12.5 ", 0))

	assert.Equal(t, 7.0, CoerceNumber("", 7))
	assert.Equal(t, 7.0, CoerceNumber("abc", 7))
	assert.Equal(t, 7.0, CoerceNumber(nil, 7))
	assert.Equal(t, 7.0, CoerceNumber(math.NaN(), 7))
	assert.Equal(t, 7.0, CoerceNumber(math.Inf(1), 7))
	assert.Equal(t, 7.0, CoerceNumber("NaN", 7))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "10", FormatAmount(10))
	assert.Equal(t, "10.5", FormatAmount(10.5))
	assert.Equal(t, "0", FormatAmount(0))
}

func TestLineQuantityFloorsToOne(t *testing.T) {
	assert.Equal(t, 1, LineQuantity(CartItem{Quantity: 0}))
	assert.Equal(t, 1, LineQuantity(CartItem{Quantity: -2}))
	assert.Equal(t, 1, LineQuantity(CartItem{Quantity: math.NaN()}))
	assert.Equal(t, 3, LineQuantity(CartItem{Quantity: 3}))
	assert.Equal(t, 2, LineQuantity(CartItem{Quantity: 2.9}))
}

func TestAttributeValueFallbackChains(t *testing.T) {
	av := AttributeValue{
		Name:                "Short",
		AttributeValueName:  "Long",
		Price:               floatPtr(2),
		AttributeValuePrice: floatPtr(3),
		UnitPrice:           floatPtr(4),
	}
	assert.Equal(t, "Long", AttributeValueName(av))
	assert.Equal(t, 3.0, AttributeValuePrice(av))

	av = AttributeValue{Name: "Short", UnitPrice: floatPtr(4)}
	assert.Equal(t, "Short", AttributeValueName(av))
	assert.Equal(t, 4.0, AttributeValuePrice(av))

	assert.Equal(t, 0.0, AttributeValuePrice(AttributeValue{}))

	assert.Equal(t, 1, AttributeValueQuantity(AttributeValue{}))
	assert.Equal(t, 1, AttributeValueQuantity(AttributeValue{Quantity: floatPtr(0)}))
	assert.Equal(t, 2, AttributeValueQuantity(AttributeValue{Quantity: floatPtr(2)}))
	assert.Equal(t, 3, AttributeValueQuantity(AttributeValue{
		Quantity:               floatPtr(2),
		AttributeValueQuantity: floatPtr(3),
	}))
}

func TestUnitAndLineTotals(t *testing.T) {
	item := CartItem{
		ItemPrice:      10,
		VariantPrice:   2,
		AttributePrice: 0,
		Quantity:       3,
		AttributeValues: []AttributeValue{
			{Price: floatPtr(1.5), Quantity: floatPtr(2)},
		},
	}

	assert.Equal(t, 15.0, UnitTotal(item))
	assert.Equal(t, 45.0, LineTotal(item))
}

func TestSubtotalAndItemCount(t *testing.T) {
	c := Cart{Items: []CartItem{
		{ItemPrice: 15, Quantity: 3},
		{ItemPrice: 10, Quantity: 2},
	}}

	assert.Equal(t, 65.0, Subtotal(c))
	assert.Equal(t, 5, ItemCount(c))

	assert.Equal(t, 0.0, Subtotal(EmptyCart()))
	assert.Equal(t, 0, ItemCount(EmptyCart()))
}

func TestDiscountAmount(t *testing.T) {
	assert.Equal(t, 0.0, DiscountAmount(100, nil))

	percentage := &CartDiscount{DiscountType: DiscountPercentage, DiscountValue: 10}
	assert.Equal(t, 6.5, DiscountAmount(65, percentage))

	flat := &CartDiscount{DiscountType: DiscountFlat, DiscountValue: 15}
	assert.Equal(t, 15.0, DiscountAmount(65, flat))

	// Clamped to the subtotal in both modes.
	overFlat := &CartDiscount{DiscountType: DiscountFlat, DiscountValue: 80}
	assert.Equal(t, 50.0, DiscountAmount(50, overFlat))

	overPercentage := &CartDiscount{DiscountType: DiscountPercentage, DiscountValue: 150}
	assert.Equal(t, 50.0, DiscountAmount(50, overPercentage))

	negative := &CartDiscount{DiscountType: DiscountFlat, DiscountValue: -5}
	assert.Equal(t, 0.0, DiscountAmount(50, negative))

	assert.Equal(t, 0.0, DiscountAmount(0, flat))
}

func TestOptionsSummary(t *testing.T) {
	item := CartItem{
		ItemName:      "Pizza",
		VariantName:   "Large",
		AttributeName: "Toppings",
		AttributeValues: []AttributeValue{
			{Name: "Cheese"},
			{Name: "Olives"},
		},
	}
	assert.Equal(t, "Large · Toppings: Cheese, Olives", OptionsSummary(item))

	// Variant repeating the item name is dropped.
	item.VariantName = "Pizza"
	assert.Equal(t, "Toppings: Cheese, Olives", OptionsSummary(item))

	item.AttributeName = ""
	assert.Equal(t, "Cheese, Olives", OptionsSummary(item))

	assert.Equal(t, "", OptionsSummary(CartItem{ItemName: "Pizza"}))
}
