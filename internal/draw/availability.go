package draw

import (
	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

// AvailableSizes reports which bundle sizes the pack can currently satisfy.
// A size is sellable when the live pool holds at least that many units across
// items the draw can actually consume at that size: a seat-group only counts
// toward the single size it is sold whole at, everything else toward every
// size in its eligibility set. Eligibility is pack-specific, so this must be
// recomputed whenever the buyer switches packs.
func AvailableSizes(items []models.InventoryItem, pack enums.Pack) []int {
	live, _ := LivePool(items, pack)

	sizes := make([]int, 0, len(types.BundleSizes))
	for _, size := range types.BundleSizes {
		var units int
		for i := range live {
			if !servesSize(live[i], size) {
				continue
			}
			units += live[i].Quantity
		}
		if units >= size {
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// servesSize reports whether the draw could put this item toward a bundle of
// the given size. Keeping availability, pricing, and selection on the same
// predicate stops a size from being advertised that a paid draw then misses.
func servesSize(item models.InventoryItem, size int) bool {
	if item.Kind == enums.ItemKindSeatGroup {
		return item.EligibleSizes.ExactlyMatches(size)
	}
	return item.EligibleSizes.Contains(size)
}
