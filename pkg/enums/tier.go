package enums

import "fmt"

// Tier is the value-derived category used for eligibility and cascade logic.
type Tier string

const (
	TierNone  Tier = "none"
	TierUpper Tier = "upper"
	TierGold  Tier = "gold"
	TierVIP   Tier = "vip"
)

var validTiers = []Tier{
	TierNone,
	TierUpper,
	TierGold,
	TierVIP,
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether the value is a known Tier.
func (t Tier) IsValid() bool {
	for _, candidate := range validTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTier converts raw input into a Tier.
func ParseTier(value string) (Tier, error) {
	for _, candidate := range validTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier %q", value)
}
