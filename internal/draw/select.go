package draw

import (
	"errors"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// ErrInsufficientUnits signals the live pool cannot cover the requested size.
var ErrInsufficientUnits = errors.New("insufficient eligible units for bundle size")

// Selection is one planned consumption of an inventory item.
type Selection struct {
	Item  models.InventoryItem
	Units int
}

// SelectBundle plans which items cover one bundle of the requested size.
//
// Seat-groups sold only at this exact size are preferred and consumed whole,
// keeping the seats together. Otherwise single units are drawn one at a time,
// weighted by each item's remaining quantity so that an item with ten units
// left is ten times as likely to be hit as one with a single unit.
//
// The plan does not mutate anything; the caller commits it transactionally
// and re-plans if it loses the race.
func SelectBundle(items []models.InventoryItem, pack enums.Pack, size int, rng RandomSource) ([]Selection, []Warning, error) {
	if rng == nil {
		rng = DefaultRNG()
	}

	live, warnings := LivePool(items, pack)

	candidates := make([]models.InventoryItem, 0, len(live))
	for i := range live {
		if servesSize(live[i], size) {
			candidates = append(candidates, live[i])
		}
	}

	if group := pickSeatGroup(candidates, size, rng); group != nil {
		return []Selection{{Item: *group, Units: group.Quantity}}, warnings, nil
	}

	selections, err := drawUnits(candidates, size, rng)
	if err != nil {
		return nil, warnings, err
	}
	return selections, warnings, nil
}

// pickSeatGroup returns a seat-group that exactly serves the requested size,
// chosen by quantity-weighted draw when several qualify.
func pickSeatGroup(candidates []models.InventoryItem, size int, rng RandomSource) *models.InventoryItem {
	groups := make([]models.InventoryItem, 0, 2)
	var totalWeight int
	for i := range candidates {
		item := candidates[i]
		if item.Kind != enums.ItemKindSeatGroup {
			continue
		}
		if !item.EligibleSizes.ExactlyMatches(size) || item.Quantity < size {
			continue
		}
		groups = append(groups, item)
		totalWeight += item.Quantity
	}
	if len(groups) == 0 {
		return nil
	}

	target := int(rng.Float64() * float64(totalWeight))
	for i := range groups {
		target -= groups[i].Quantity
		if target < 0 {
			return &groups[i]
		}
	}
	return &groups[len(groups)-1]
}

// drawUnits accumulates single units at random until the size is covered.
// Seat-groups are never split, so they do not participate here.
func drawUnits(candidates []models.InventoryItem, size int, rng RandomSource) ([]Selection, error) {
	type bucket struct {
		item      models.InventoryItem
		remaining int
		taken     int
	}
	buckets := make([]*bucket, 0, len(candidates))
	var totalUnits int
	for i := range candidates {
		if candidates[i].Kind == enums.ItemKindSeatGroup {
			continue
		}
		buckets = append(buckets, &bucket{item: candidates[i], remaining: candidates[i].Quantity})
		totalUnits += candidates[i].Quantity
	}
	if totalUnits < size {
		return nil, ErrInsufficientUnits
	}

	for covered := 0; covered < size; covered++ {
		target := int(rng.Float64() * float64(totalUnits))
		for _, b := range buckets {
			if b.remaining == 0 {
				continue
			}
			target -= b.remaining
			if target < 0 {
				b.remaining--
				b.taken++
				totalUnits--
				break
			}
		}
	}

	selections := make([]Selection, 0, len(buckets))
	for _, b := range buckets {
		if b.taken > 0 {
			selections = append(selections, Selection{Item: b.item, Units: b.taken})
		}
	}
	return selections, nil
}
