package enums

import "fmt"

// Pack identifies one of the fixed draw pools buyers purchase from.
type Pack string

const (
	PackBlue Pack = "blue"
	PackRed  Pack = "red"
	PackGold Pack = "gold"
)

var validPacks = []Pack{
	PackBlue,
	PackRed,
	PackGold,
}

// Packs returns every known pack in declaration order.
func Packs() []Pack {
	return append([]Pack(nil), validPacks...)
}

// String implements fmt.Stringer.
func (p Pack) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Pack.
func (p Pack) IsValid() bool {
	for _, candidate := range validPacks {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePack converts raw input into a Pack.
func ParsePack(value string) (Pack, error) {
	for _, candidate := range validPacks {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pack %q", value)
}
