package cart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseItem() CartItem {
	return CartItem{
		CategoryID: 3,
		ItemID:     42,
		ItemName:   "Masala Dosa",
		ItemPrice:  120,
		Quantity:   1,
	}
}

func TestGenerateCartIDDeterministic(t *testing.T) {
	first := GenerateCartID(baseItem())
	second := GenerateCartID(baseItem())

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "cart_"))
}

func TestGenerateCartIDIgnoresQuantity(t *testing.T) {
	one := baseItem()
	five := baseItem()
	five.Quantity = 5

	assert.Equal(t, GenerateCartID(one), GenerateCartID(five))
}

func TestGenerateCartIDSensitiveToSelection(t *testing.T) {
	plain := baseItem()

	withVariant := baseItem()
	withVariant.VariantID = 7
	assert.NotEqual(t, GenerateCartID(plain), GenerateCartID(withVariant))

	withNote := baseItem()
	withNote.OrderItemNote = "no onions"
	assert.NotEqual(t, GenerateCartID(plain), GenerateCartID(withNote))

	withValues := baseItem()
	withValues.AttributeValues = []AttributeValue{{AttributeValueID: 9}}
	assert.NotEqual(t, GenerateCartID(plain), GenerateCartID(withValues))
}

func TestGenerateCartIDOmitsZeroFields(t *testing.T) {
	// A zero variant id contributes nothing, same as earlier app builds.
	zeroVariant := baseItem()
	zeroVariant.VariantID = 0

	assert.Equal(t, GenerateCartID(baseItem()), GenerateCartID(zeroVariant))
}

func TestGenerateCartIDValueIDFallback(t *testing.T) {
	canonical := baseItem()
	canonical.AttributeValues = []AttributeValue{{AttributeValueID: 9}}

	legacy := baseItem()
	legacy.AttributeValues = []AttributeValue{{ID: 9}}

	assert.Equal(t, GenerateCartID(canonical), GenerateCartID(legacy))
}

func TestSimpleHashNonASCII(t *testing.T) {
	// UTF-16 surrogate pairs must hash, not panic.
	item := baseItem()
	item.ItemName = "Café ☕ 🍰"

	id := GenerateCartID(item)
	assert.True(t, strings.HasPrefix(id, "cart_"))
	assert.Equal(t, id, GenerateCartID(item))
}
