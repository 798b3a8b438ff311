package draw

import (
	"fmt"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// Warning surfaces a data-entry problem found while resolving the pool.
// Warnings never block a draw; the resolver always picks a deterministic
// winner and reports the ambiguity upstream.
type Warning struct {
	ItemID  string
	Message string
}

// ActiveVIP returns the single VIP item currently live for the pack: the one
// with the lowest tier priority among VIP items with remaining stock. All
// other VIP items are invisible to pricing, availability, and selection until
// the active one is exhausted. Promotion of the successor is implicit, this
// is a pure function of current quantities.
func ActiveVIP(items []models.InventoryItem, pack enums.Pack) (*models.InventoryItem, []Warning) {
	var active *models.InventoryItem
	var warnings []Warning

	for i := range items {
		item := &items[i]
		if item.Tier != enums.TierVIP {
			continue
		}
		if item.Status != enums.ItemStatusAvailable || item.Quantity <= 0 {
			continue
		}
		if !item.EligiblePacks.Contains(pack) {
			continue
		}
		if active == nil {
			active = item
			continue
		}
		switch {
		case item.TierPriority < active.TierPriority:
			active = item
		case item.TierPriority == active.TierPriority:
			warnings = append(warnings, Warning{
				ItemID: item.ID.String(),
				Message: fmt.Sprintf("duplicate vip priority %d for pack %s, item %s shadowed by %s",
					item.TierPriority, pack, item.ID, active.ID),
			})
			// Lowest id wins the tie so repeated resolutions agree.
			if item.ID.String() < active.ID.String() {
				warnings[len(warnings)-1].ItemID = active.ID.String()
				warnings[len(warnings)-1].Message = fmt.Sprintf("duplicate vip priority %d for pack %s, item %s shadowed by %s",
					active.TierPriority, pack, active.ID, item.ID)
				active = item
			}
		}
	}

	return active, warnings
}

// LivePool filters the pool down to what a buyer in the given pack can
// actually draw from: available non-VIP items plus the single active VIP.
func LivePool(items []models.InventoryItem, pack enums.Pack) ([]models.InventoryItem, []Warning) {
	activeVIP, warnings := ActiveVIP(items, pack)

	live := make([]models.InventoryItem, 0, len(items))
	for i := range items {
		item := items[i]
		if item.Status != enums.ItemStatusAvailable || item.Quantity <= 0 {
			continue
		}
		if len(item.EligiblePacks) == 0 || len(item.EligibleSizes) == 0 {
			warnings = append(warnings, Warning{
				ItemID:  item.ID.String(),
				Message: "item has empty eligibility sets",
			})
			continue
		}
		if !item.EligiblePacks.Contains(pack) {
			continue
		}
		if item.Tier == enums.TierVIP {
			if activeVIP == nil || item.ID != activeVIP.ID {
				continue
			}
		}
		live = append(live, item)
	}
	return live, warnings
}
