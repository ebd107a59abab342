package menu

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nagpalarpit/POS-WaiterApp/internal/cart"
)

// The menu service has gone through several backend generations, and each one
// shipped a different nesting for the variant tree. NormalizeItem accepts any
// of the shapes still in the wild and produces the single canonical shape the
// rest of the app is written against. The key fallback order below is
// load-bearing: positional placeholder names depend on it.

var variantCollator = collate.New(language.English)

// NormalizeItem canonicalizes a raw menu item payload.
func NormalizeItem(raw map[string]interface{}) MenuItem {
	id := intField(raw, 0, "id")
	customID := intField(raw, id, "customId")
	if customID == 0 {
		customID = id
	}

	return MenuItem{
		ID:               id,
		CustomID:         customID,
		Name:             stringField(raw, "", "name"),
		Description:      stringField(raw, "", "description"),
		ImagePath:        stringField(raw, "", "imagePath"),
		Price:            numberField(raw, 0, "price"),
		SKU:              stringField(raw, "", "sku"),
		MenuItemVariants: NormalizeVariants(raw),
	}
}

// NormalizeVariants resolves the variant list from whichever legacy key holds
// it. An item with no variants but item-level attributes gets exactly one
// synthetic default variant (price 0) wrapping them, so every purchasable item
// has the same variant→attribute shape downstream. The result is sorted by
// name for stable display order.
func NormalizeVariants(raw map[string]interface{}) []Variant {
	rawVariants := firstSlice(raw, "menuItemVariants", "variants")
	if rawVariants == nil {
		if wrapped, ok := asMap(raw["menuItemVariant"]); ok {
			rawVariants = []interface{}{wrapped}
		}
	}

	topLevelAttributes := firstSlice(raw, "menuItemVariantAttributes", "attributes")

	if len(rawVariants) == 0 && len(topLevelAttributes) > 0 {
		defaultVariant := map[string]interface{}{
			"id":    float64(intField(raw, 1, "id")),
			"name":  stringField(raw, "Default", "name"),
			"price": float64(0),
			"menuItemVariantAttributes": topLevelAttributes,
		}
		rawVariants = []interface{}{defaultVariant}
	}

	variants := make([]Variant, 0, len(rawVariants))
	for index, entry := range rawVariants {
		variant, ok := asMap(entry)
		if !ok {
			continue
		}
		variants = append(variants, normalizeVariant(variant, index))
	}

	sort.SliceStable(variants, func(i, j int) bool {
		return variantCollator.CompareString(variants[i].Name, variants[j].Name) < 0
	})

	return variants
}

func normalizeVariant(variant map[string]interface{}, index int) Variant {
	rawAttributes := firstSlice(variant, "menuItemVariantAttributes", "attributes")

	attributes := make([]Attribute, 0, len(rawAttributes))
	for attrIndex, entry := range rawAttributes {
		attribute, ok := asMap(entry)
		if !ok {
			continue
		}
		attributes = append(attributes, normalizeAttribute(attribute, attrIndex))
	}

	return Variant{
		ID:                        idChain(variant, index, "id", "menuItemVariantId"),
		Name:                      nameChain(variant, "menuItemVariant", fmt.Sprintf("Variant %d", index+1)),
		Price:                     priceChain(variant, "menuItemVariant"),
		Description:               stringField(variant, "", "description"),
		MenuItemVariantAttributes: attributes,
	}
}

func normalizeAttribute(attribute map[string]interface{}, index int) Attribute {
	rawValues := firstSlice(attribute, "menuItemVariantAttributeValues", "attributeValues", "values")

	values := make([]Value, 0, len(rawValues))
	for valueIndex, entry := range rawValues {
		value, ok := asMap(entry)
		if !ok {
			continue
		}
		values = append(values, normalizeValue(value, valueIndex))
	}

	return Attribute{
		ID:                             idChain(attribute, index, "id", "menuItemVariantAttributeId"),
		Name:                           nameChain(attribute, "menuItemVariantAttribute", fmt.Sprintf("Option %d", index+1)),
		Price:                          priceChain(attribute, "menuItemVariantAttribute"),
		SelectionTypeID:                intField(attribute, 0, "selectionTypeId"),
		MenuItemVariantAttributeValues: values,
	}
}

func normalizeValue(value map[string]interface{}, index int) Value {
	return Value{
		ID:          idChain(value, index, "id", "menuItemVariantAttributeValueId"),
		Name:        nameChain(value, "menuItemVariantAttributeValue", fmt.Sprintf("Value %d", index+1)),
		Price:       priceChain(value, "menuItemVariantAttributeValue"),
		Description: stringField(value, "", "description"),
	}
}

// --- Field accessors ---

func asMap(value interface{}) (map[string]interface{}, bool) {
	m, ok := value.(map[string]interface{})
	return m, ok && m != nil
}

func asSlice(value interface{}) ([]interface{}, bool) {
	s, ok := value.([]interface{})
	return s, ok
}

// firstSlice returns the first key whose value is a list.
func firstSlice(m map[string]interface{}, keys ...string) []interface{} {
	for _, key := range keys {
		if s, ok := asSlice(m[key]); ok {
			return s
		}
	}
	return nil
}

func present(m map[string]interface{}, key string) (interface{}, bool) {
	value, ok := m[key]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

func stringField(m map[string]interface{}, fallback string, key string) string {
	if value, ok := present(m, key); ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return fallback
}

func numberField(m map[string]interface{}, fallback float64, key string) float64 {
	if value, ok := present(m, key); ok {
		return cart.CoerceNumber(value, fallback)
	}
	return fallback
}

func intField(m map[string]interface{}, fallback int, key string) int {
	if value, ok := present(m, key); ok {
		return int(cart.CoerceNumber(value, float64(fallback)))
	}
	return fallback
}

// idChain resolves an id from the canonical key, then the legacy key, then the
// 1-based positional fallback.
func idChain(m map[string]interface{}, index int, keys ...string) int {
	for _, key := range keys {
		if value, ok := present(m, key); ok {
			return int(cart.CoerceNumber(value, float64(index+1)))
		}
	}
	return index + 1
}

// nameChain resolves a display name from the entry itself, then the nested
// legacy wrapper object, then the positional placeholder, so the UI never
// renders a blank label.
func nameChain(m map[string]interface{}, wrapperKey, fallback string) string {
	if value, ok := present(m, "name"); ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	if wrapper, ok := asMap(m[wrapperKey]); ok {
		if value, ok := present(wrapper, "name"); ok {
			if s, ok := value.(string); ok {
				return s
			}
		}
	}
	return fallback
}

// priceChain coerces a price from price, then unitPrice, then the nested
// legacy wrapper's price. Missing or malformed values become 0, never NaN.
func priceChain(m map[string]interface{}, wrapperKey string) float64 {
	if value, ok := present(m, "price"); ok {
		return cart.CoerceNumber(value, 0)
	}
	if value, ok := present(m, "unitPrice"); ok {
		return cart.CoerceNumber(value, 0)
	}
	if wrapper, ok := asMap(m[wrapperKey]); ok {
		if value, ok := present(wrapper, "price"); ok {
			return cart.CoerceNumber(value, 0)
		}
	}
	return 0
}
