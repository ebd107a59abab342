package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectValueSingleReplaces(t *testing.T) {
	selected := []SelectedValue{{ID: 1, Name: "Small", Quantity: 1}}

	updated := SelectValue(selected, SelectionTypeSingle, SelectedValue{ID: 2, Name: "Large"})

	assert.Len(t, updated, 1)
	assert.Equal(t, 2, updated[0].ID)
	assert.Equal(t, 1, updated[0].Quantity)
}

func TestSelectValueSingleReselectKeepsOne(t *testing.T) {
	selected := []SelectedValue{{ID: 1, Name: "Small", Quantity: 1}}

	updated := SelectValue(selected, SelectionTypeSingle, SelectedValue{ID: 1, Name: "Small"})

	assert.Len(t, updated, 1)
	assert.Equal(t, 1, updated[0].Quantity)
}

func TestSelectValueMultiPrependsNew(t *testing.T) {
	selected := []SelectedValue{{ID: 1, Name: "Cheese", Quantity: 1}}

	updated := SelectValue(selected, 1, SelectedValue{ID: 2, Name: "Olives"})

	assert.Len(t, updated, 2)
	assert.Equal(t, 2, updated[0].ID)
	assert.Equal(t, 1, updated[0].Quantity)
	assert.Equal(t, 1, updated[1].ID)
}

func TestSelectValueMultiReselectIncrements(t *testing.T) {
	selected := []SelectedValue{{ID: 1, Name: "Cheese", Quantity: 1}}

	updated := SelectValue(selected, 1, SelectedValue{ID: 1, Name: "Cheese"})

	assert.Len(t, updated, 1)
	assert.Equal(t, 2, updated[0].Quantity)

	// Original slice is untouched.
	assert.Equal(t, 1, selected[0].Quantity)
}

func TestDeselectValueDecrementsThenRemoves(t *testing.T) {
	selected := []SelectedValue{
		{ID: 1, Name: "Cheese", Quantity: 2},
		{ID: 2, Name: "Olives", Quantity: 1},
	}

	updated := DeselectValue(selected, 1)
	assert.Len(t, updated, 2)
	assert.Equal(t, 1, updated[0].Quantity)

	updated = DeselectValue(updated, 1)
	assert.Len(t, updated, 1)
	assert.Equal(t, 2, updated[0].ID)
}

func TestDeselectValueUnknownIDNoop(t *testing.T) {
	selected := []SelectedValue{{ID: 1, Quantity: 1}}

	updated := DeselectValue(selected, 99)
	assert.Equal(t, selected, updated)
}
