package cart

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceNumber converts loosely-typed numeric input (numbers or numeric
// strings) to a float64. Nil, empty/non-numeric strings, NaN and Infinity all
// collapse to the fallback. Every price or quantity crossing a boundary goes
// through here so the NaN policy lives in one place.
func CoerceNumber(value interface{}, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		return v
	case float32:
		return CoerceNumber(float64(v), fallback)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return fallback
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// RoundToTwo rounds to currency granularity (2 decimals).
func RoundToTwo(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// FormatAmount renders a price the way the order service expects unit prices:
// no trailing zeros, no exponent ("10", "10.5").
func FormatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func sanitize(value, fallback float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}
	return value
}

// LineQuantity reads a line's quantity with a defensive floor: anything
// non-positive or malformed counts as 1.
func LineQuantity(item CartItem) int {
	quantity := sanitize(item.Quantity, 1)
	if quantity <= 0 {
		return 1
	}
	return int(quantity)
}

func AttributeValueName(av AttributeValue) string {
	if av.AttributeValueName != "" {
		return av.AttributeValueName
	}
	return av.Name
}

// AttributeValueQuantity reads the selected quantity from whichever legacy
// field carries it, floored to 1 like LineQuantity.
func AttributeValueQuantity(av AttributeValue) int {
	quantity := 1.0
	switch {
	case av.AttributeValueQuantity != nil:
		quantity = sanitize(*av.AttributeValueQuantity, 1)
	case av.Quantity != nil:
		quantity = sanitize(*av.Quantity, 1)
	}
	if quantity <= 0 {
		return 1
	}
	return int(quantity)
}

// AttributeValuePrice prefers the most specific of the three legacy price
// fields.
func AttributeValuePrice(av AttributeValue) float64 {
	switch {
	case av.AttributeValuePrice != nil:
		return sanitize(*av.AttributeValuePrice, 0)
	case av.Price != nil:
		return sanitize(*av.Price, 0)
	case av.UnitPrice != nil:
		return sanitize(*av.UnitPrice, 0)
	}
	return 0
}

// UnitTotal is the cost of one unit of the line: base price plus variant,
// attribute and every selected attribute value times its own quantity.
func UnitTotal(item CartItem) float64 {
	total := sanitize(item.ItemPrice, 0)
	total += sanitize(item.VariantPrice, 0)
	total += sanitize(item.AttributePrice, 0)

	for _, av := range item.AttributeValues {
		total += AttributeValuePrice(av) * float64(AttributeValueQuantity(av))
	}

	return total
}

func LineTotal(item CartItem) float64 {
	return UnitTotal(item) * float64(LineQuantity(item))
}

func Subtotal(c Cart) float64 {
	var sum float64
	for _, item := range c.Items {
		sum += LineTotal(item)
	}
	return sum
}

// ItemCount is the total unit count across all lines.
func ItemCount(c Cart) int {
	var count int
	for _, item := range c.Items {
		count += LineQuantity(item)
	}
	return count
}

// DiscountAmount computes the applied discount, clamped so it can never exceed
// the subtotal. Returns 0 for a missing or non-positive discount.
func DiscountAmount(subtotal float64, discount *CartDiscount) float64 {
	if discount == nil {
		return 0
	}

	subtotalValue := math.Max(sanitize(subtotal, 0), 0)
	discountValue := math.Max(sanitize(discount.DiscountValue, 0), 0)
	if discountValue <= 0 || subtotalValue <= 0 {
		return 0
	}

	if discount.DiscountType == DiscountPercentage {
		return RoundToTwo(math.Min(subtotalValue*discountValue/100, subtotalValue))
	}

	return RoundToTwo(math.Min(discountValue, subtotalValue))
}

// OptionsSummary builds the "Variant · Attribute: Value1, Value2" display
// line. The variant name is dropped when it just repeats the item name.
func OptionsSummary(item CartItem) string {
	var parts []string

	variantName := strings.TrimSpace(item.VariantName)
	if variantName != "" && variantName != item.ItemName {
		parts = append(parts, variantName)
	}

	var valueNames []string
	for _, av := range item.AttributeValues {
		if name := AttributeValueName(av); name != "" {
			valueNames = append(valueNames, name)
		}
	}

	if len(valueNames) > 0 {
		joined := strings.Join(valueNames, ", ")
		if attributeName := strings.TrimSpace(item.AttributeName); attributeName != "" {
			parts = append(parts, attributeName+": "+joined)
		} else {
			parts = append(parts, joined)
		}
	}

	return strings.Join(parts, " · ")
}
