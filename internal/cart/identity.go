package cart

import (
	"strconv"
	"unicode/utf16"
)

// GenerateCartID derives the deterministic line identity from the immutable
// selection fields. Quantity is deliberately excluded: bumping the quantity of
// an existing selection must map to the same id so the line merges instead of
// splitting. Zero-valued variant/attribute/group ids and empty notes are
// omitted, matching the ids persisted by earlier app builds.
func GenerateCartID(item CartItem) string {
	combination := strconv.Itoa(item.CategoryID) +
		"-" + strconv.Itoa(item.ItemID) +
		"-" + item.ItemName +
		"-" + FormatAmount(item.ItemPrice)

	if item.VariantID != 0 {
		combination += "-" + strconv.Itoa(item.VariantID)
	}
	if item.AttributeID != 0 {
		combination += "-" + strconv.Itoa(item.AttributeID)
	}

	for _, av := range item.AttributeValues {
		id := av.AttributeValueID
		if id == 0 {
			id = av.ID
		}
		combination += "-" + strconv.Itoa(id)
	}

	if item.GroupType != 0 {
		combination += "-" + strconv.Itoa(item.GroupType)
	}
	if item.GroupLabel != "" {
		combination += "-" + item.GroupLabel
	}
	if item.OrderItemNote != "" {
		combination += "-" + item.OrderItemNote
	}

	return simpleHash(combination)
}

// simpleHash is the 32-bit rolling hash ((h<<5)-h+c over UTF-16 code units)
// the mobile client has always used for cart ids. Kept bit-for-bit so ids stay
// stable across clients.
func simpleHash(s string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = (hash << 5) - hash + int32(unit)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return "cart_" + strconv.FormatInt(abs, 16)
}
