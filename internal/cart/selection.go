package cart

// SelectionTypeSingle marks an exclusive attribute; any other selection type
// allows cumulative multi-select quantities.
const SelectionTypeSingle = 0

// SelectValue applies one tap on an attribute value and returns the updated
// selection list. Reselecting a value on a multi-select attribute increments
// its quantity; on a single-select attribute the chosen value replaces the
// whole list; a new value on a multi-select attribute is prepended with
// quantity 1.
func SelectValue(selected []SelectedValue, selectionTypeID int, value SelectedValue) []SelectedValue {
	for i, existing := range selected {
		if existing.ID != value.ID {
			continue
		}
		if selectionTypeID == SelectionTypeSingle {
			break
		}
		updated := make([]SelectedValue, len(selected))
		copy(updated, selected)
		if updated[i].Quantity < 1 {
			updated[i].Quantity = 1
		}
		updated[i].Quantity++
		return updated
	}

	value.Quantity = 1
	if selectionTypeID == SelectionTypeSingle {
		return []SelectedValue{value}
	}
	return append([]SelectedValue{value}, selected...)
}

// DeselectValue decrements the value's quantity and drops it entirely once it
// reaches zero.
func DeselectValue(selected []SelectedValue, valueID int) []SelectedValue {
	updated := make([]SelectedValue, 0, len(selected))
	for _, existing := range selected {
		if existing.ID == valueID {
			if existing.Quantity < 1 {
				existing.Quantity = 1
			}
			existing.Quantity--
			if existing.Quantity <= 0 {
				continue
			}
		}
		updated = append(updated, existing)
	}
	return updated
}
