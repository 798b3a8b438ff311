package enums

import "fmt"

// ItemKind distinguishes the physical shape of an inventory item.
type ItemKind string

const (
	// ItemKindSeatGroup is a block of physically adjacent seats sold whole.
	ItemKindSeatGroup ItemKind = "seat_group"
	// ItemKindSeatPool is a pool of interchangeable single seats at one level.
	ItemKindSeatPool ItemKind = "seat_pool"
	// ItemKindCollectible is a physical collectible item.
	ItemKindCollectible ItemKind = "collectible"
)

var validItemKinds = []ItemKind{
	ItemKindSeatGroup,
	ItemKindSeatPool,
	ItemKindCollectible,
}

// String implements fmt.Stringer.
func (k ItemKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ItemKind.
func (k ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseItemKind converts raw input into an ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}
