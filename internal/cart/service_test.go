package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(NewMemoryStore())
}

func testCategory() CategoryRef {
	return CategoryRef{ID: 3, Name: "South Indian", Tax: &TaxRule{Percentage: 5}}
}

func testItem() ItemRef {
	return ItemRef{ID: 42, CustomID: 420, Name: "Masala Dosa", Price: 120}
}

func TestLoadEmptyStore(t *testing.T) {
	svc := newTestService()

	c := svc.Load(context.Background())
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.Empty(t, c.OrderNote)
	assert.Nil(t, c.Discount)
}

func TestLoadMalformedData(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), CartStorageKey, "{not json"))

	svc := NewService(store)
	c := svc.Load(context.Background())
	assert.Empty(t, c.Items)
}

func TestLoadMissingItemsArray(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), CartStorageKey, `{"orderNote":"rush"}`))

	svc := NewService(store)
	c := svc.Load(context.Background())
	assert.NotNil(t, c.Items)
	assert.Equal(t, "rush", c.OrderNote)
}

func TestAddItemMergesIdenticalSelection(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 1.0, first.Items[0].Quantity)

	second, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 2.0, second.Items[0].Quantity)
}

func TestAddItemPrependsNewSelection(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)

	variant := &OptionRef{ID: 7, Name: "Ghee Roast", Price: 30}
	c, err := svc.AddItem(ctx, testCategory(), testItem(), variant, nil, nil)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 7, c.Items[0].VariantID)
	assert.Equal(t, 0, c.Items[1].VariantID)
}

func TestAddItemCarriesSelection(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	variant := &OptionRef{ID: 7, Name: "Ghee Roast", Price: 30}
	attribute := &OptionRef{ID: 11, Name: "Add-ons", Price: 0}
	values := []SelectedValue{{ID: 21, Name: "Extra Chutney", Price: 10, Quantity: 2}}

	c, err := svc.AddItem(ctx, testCategory(), testItem(), variant, attribute, values)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)

	line := c.Items[0]
	assert.Equal(t, 420, line.CustomID)
	assert.Equal(t, "Ghee Roast", line.VariantName)
	assert.Equal(t, 11, line.AttributeID)
	require.Len(t, line.AttributeValues, 1)
	assert.Equal(t, 21, line.AttributeValues[0].AttributeValueID)
	assert.Equal(t, 2.0, *line.AttributeValues[0].AttributeValueQuantity)
	assert.NotEmpty(t, line.CartID)
	require.NotNil(t, line.Tax)
	assert.Equal(t, 5.0, line.Tax.Percentage)

	// 120 + 30 + 0 + 10*2
	assert.Equal(t, 170.0, UnitTotal(line))
}

func TestAddItemCustomIDFallsBackToItemID(t *testing.T) {
	svc := newTestService()

	item := testItem()
	item.CustomID = 0

	c, err := svc.AddItem(context.Background(), testCategory(), item, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, c.Items[0].CustomID)
}

func TestSetQuantity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)
	cartID := c.Items[0].CartID

	c, err = svc.SetQuantity(ctx, cartID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, c.Items[0].Quantity)

	// Non-positive quantity removes the line.
	c, err = svc.SetQuantity(ctx, cartID, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestRemoveLastItemClearsCartState(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)
	cartID := c.Items[0].CartID

	_, err = svc.SetOrderNote(ctx, "birthday table")
	require.NoError(t, err)
	_, err = svc.SetDiscount(ctx, &CartDiscount{DiscountType: DiscountFlat, DiscountValue: 20})
	require.NoError(t, err)

	c, err = svc.RemoveItem(ctx, cartID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Empty(t, c.OrderNote)
	assert.Nil(t, c.Discount)
}

func TestSetItemNote(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)
	cartID := c.Items[0].CartID

	c, err = svc.SetItemNote(ctx, cartID, "  no onions  ")
	require.NoError(t, err)
	assert.Equal(t, "no onions", c.Items[0].OrderItemNote)

	// Unknown cartID is a no-op.
	c, err = svc.SetItemNote(ctx, "cart_missing", "whatever")
	require.NoError(t, err)
	assert.Equal(t, "no onions", c.Items[0].OrderItemNote)
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	svc := NewService(store)
	_, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)
	_, err = svc.SetOrderNote(ctx, "rush")
	require.NoError(t, err)

	// A fresh service over the same store sees the same cart.
	reloaded := NewService(store).Load(ctx)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Masala Dosa", reloaded.Items[0].ItemName)
	assert.Equal(t, "rush", reloaded.OrderNote)
}

func TestServiceKeysAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := NewServiceWithKey(store, "cart:1")
	second := NewServiceWithKey(store, "cart:2")

	_, err := first.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)

	assert.Len(t, first.Load(ctx).Items, 1)
	assert.Empty(t, second.Load(ctx).Items)
}

func TestClear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, testCategory(), testItem(), nil, nil, nil)
	require.NoError(t, err)

	c, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Empty(t, svc.Load(ctx).Items)
}
