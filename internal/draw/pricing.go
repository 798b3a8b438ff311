package draw

import (
	"github.com/shopspring/decimal"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// Quote derives the buyer-facing total for one bundle from live inventory:
// the quantity-weighted average unit value of eligible items, times the
// margin factor, times the bundle size, rounded to whole cents. Prices shift
// as inventory depletes, so this is recomputed on every request. When nothing
// is eligible the configured fallback price is returned instead.
func Quote(items []models.InventoryItem, pack enums.Pack, bundleSize int, margin decimal.Decimal, fallbackCents int64) int64 {
	live, _ := LivePool(items, pack)

	var weightedSum decimal.Decimal
	var totalUnits int64
	for i := range live {
		item := live[i]
		if !servesSize(item, bundleSize) {
			continue
		}
		if item.Quantity < bundleSize {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		weightedSum = weightedSum.Add(decimal.NewFromInt(item.UnitValueCents).Mul(qty))
		totalUnits += int64(item.Quantity)
	}

	if totalUnits == 0 {
		return fallbackCents
	}

	average := weightedSum.Div(decimal.NewFromInt(totalUnits))
	total := average.Mul(margin).Mul(decimal.NewFromInt(int64(bundleSize)))
	return total.Round(0).IntPart()
}
