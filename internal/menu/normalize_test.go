package menu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawItem(t *testing.T, payload string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestNormalizeItemCanonicalShape(t *testing.T) {
	raw := rawItem(t, `{
		"id": 42,
		"customId": 420,
		"name": "Masala Dosa",
		"price": 120,
		"menuItemVariants": [
			{"id": 7, "name": "Ghee Roast", "price": 30}
		]
	}`)

	item := NormalizeItem(raw)
	assert.Equal(t, 42, item.ID)
	assert.Equal(t, 420, item.CustomID)
	assert.Equal(t, "Masala Dosa", item.Name)
	assert.Equal(t, 120.0, item.Price)
	require.Len(t, item.MenuItemVariants, 1)
	assert.Equal(t, "Ghee Roast", item.MenuItemVariants[0].Name)
	assert.Equal(t, 30.0, item.MenuItemVariants[0].Price)
}

func TestNormalizeItemCustomIDFallsBackToID(t *testing.T) {
	item := NormalizeItem(rawItem(t, `{"id": 42, "name": "Idli", "price": 40}`))
	assert.Equal(t, 42, item.CustomID)
}

func TestNormalizeVariantsLegacyKeys(t *testing.T) {
	// Older payloads used "variants", oldest wrapped a single object under
	// "menuItemVariant".
	fromList := NormalizeVariants(rawItem(t, `{
		"variants": [{"id": 1, "name": "Half", "price": 60}]
	}`))
	require.Len(t, fromList, 1)
	assert.Equal(t, "Half", fromList[0].Name)

	fromWrapper := NormalizeVariants(rawItem(t, `{
		"menuItemVariant": {"id": 2, "name": "Full", "price": 100}
	}`))
	require.Len(t, fromWrapper, 1)
	assert.Equal(t, "Full", fromWrapper[0].Name)
}

func TestNormalizeVariantsSyntheticDefault(t *testing.T) {
	// Item-level attributes with no variants get wrapped in one default
	// variant at price 0.
	variants := NormalizeVariants(rawItem(t, `{
		"id": 42,
		"name": "Thali",
		"menuItemVariantAttributes": [
			{"id": 11, "name": "Sides", "selectionTypeId": 1},
			{"id": 12, "name": "Sweet"}
		]
	}`))

	require.Len(t, variants, 1)
	assert.Equal(t, 42, variants[0].ID)
	assert.Equal(t, "Thali", variants[0].Name)
	assert.Equal(t, 0.0, variants[0].Price)
	require.Len(t, variants[0].MenuItemVariantAttributes, 2)
	assert.Equal(t, 1, variants[0].MenuItemVariantAttributes[0].SelectionTypeID)
	assert.Equal(t, 0, variants[0].MenuItemVariantAttributes[1].SelectionTypeID)
}

func TestNormalizeVariantsSortedByName(t *testing.T) {
	variants := NormalizeVariants(rawItem(t, `{
		"menuItemVariants": [
			{"id": 1, "name": "Small"},
			{"id": 2, "name": "Large"},
			{"id": 3, "name": "Medium"}
		]
	}`))

	require.Len(t, variants, 3)
	assert.Equal(t, "Large", variants[0].Name)
	assert.Equal(t, "Medium", variants[1].Name)
	assert.Equal(t, "Small", variants[2].Name)
}

func TestNormalizeFallbackChains(t *testing.T) {
	variants := NormalizeVariants(rawItem(t, `{
		"menuItemVariants": [
			{
				"menuItemVariantId": 77,
				"menuItemVariant": {"name": "Nested Name", "price": 25},
				"attributes": [
					{
						"unitPrice": 5,
						"values": [
							{"price": 2},
							{}
						]
					}
				]
			}
		]
	}`))

	require.Len(t, variants, 1)
	variant := variants[0]

	// Legacy id key, nested wrapper name and price.
	assert.Equal(t, 77, variant.ID)
	assert.Equal(t, "Nested Name", variant.Name)
	assert.Equal(t, 25.0, variant.Price)

	require.Len(t, variant.MenuItemVariantAttributes, 1)
	attribute := variant.MenuItemVariantAttributes[0]
	assert.Equal(t, 1, attribute.ID)
	assert.Equal(t, "Option 1", attribute.Name)
	assert.Equal(t, 5.0, attribute.Price)

	require.Len(t, attribute.MenuItemVariantAttributeValues, 2)
	assert.Equal(t, 1, attribute.MenuItemVariantAttributeValues[0].ID)
	assert.Equal(t, "Value 1", attribute.MenuItemVariantAttributeValues[0].Name)
	assert.Equal(t, 2.0, attribute.MenuItemVariantAttributeValues[0].Price)
	assert.Equal(t, 2, attribute.MenuItemVariantAttributeValues[1].ID)
	assert.Equal(t, "Value 2", attribute.MenuItemVariantAttributeValues[1].Name)
	assert.Equal(t, 0.0, attribute.MenuItemVariantAttributeValues[1].Price)
}

func TestNormalizePositionalPlaceholderNames(t *testing.T) {
	variants := NormalizeVariants(rawItem(t, `{
		"menuItemVariants": [{}, {}]
	}`))

	require.Len(t, variants, 2)
	assert.Equal(t, "Variant 1", variants[0].Name)
	assert.Equal(t, "Variant 2", variants[1].Name)
}

func TestNormalizeMalformedEntriesSkipped(t *testing.T) {
	variants := NormalizeVariants(rawItem(t, `{
		"menuItemVariants": [{"id": 1, "name": "Real"}, "garbage", 42]
	}`))

	require.Len(t, variants, 1)
	assert.Equal(t, "Real", variants[0].Name)
}

func TestNormalizeStringPrices(t *testing.T) {
	item := NormalizeItem(rawItem(t, `{
		"id": 1,
		"name": "Coffee",
		"price": "35.5",
		"menuItemVariants": [{"id": 2, "name": "Large", "price": "not a number"}]
	}`))

	assert.Equal(t, 35.5, item.Price)
	require.Len(t, item.MenuItemVariants, 1)
	assert.Equal(t, 0.0, item.MenuItemVariants[0].Price)
}
