package tiering

import (
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// Value thresholds in cents. Items at or above VIPThresholdCents are VIP,
// items at or above GoldThresholdCents are GOLD, everything else is UPPER.
const (
	VIPThresholdCents  int64 = 50000
	GoldThresholdCents int64 = 20000
)

// Classify maps an item's unit value to its advisory tier. Operators may
// override the result per item; classification never assigns a VIP priority
// rank, that is entered by hand when the item is created.
func Classify(unitValueCents int64) enums.Tier {
	switch {
	case unitValueCents >= VIPThresholdCents:
		return enums.TierVIP
	case unitValueCents >= GoldThresholdCents:
		return enums.TierGold
	default:
		return enums.TierUpper
	}
}
