package draw

import (
	"testing"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

func TestActiveVIPPicksLowestPriority(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 1, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackGold}}),
		buildItem(itemSpec{id: idB, quantity: 5, value: 60000, tier: enums.TierVIP, priority: 2, packs: types.PackSet{enums.PackGold}}),
	}

	active, warnings := ActiveVIP(items, enums.PackGold)
	if active == nil {
		t.Fatal("expected an active vip item")
	}
	if active.ID.String() != idA {
		t.Fatalf("active vip = %s, want %s", active.ID, idA)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestActiveVIPSuccession(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 0, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackGold}}),
		buildItem(itemSpec{id: idB, quantity: 5, value: 60000, tier: enums.TierVIP, priority: 2, packs: types.PackSet{enums.PackGold}}),
	}

	active, _ := ActiveVIP(items, enums.PackGold)
	if active == nil || active.ID.String() != idB {
		t.Fatalf("expected successor %s to become active, got %v", idB, active)
	}
}

func TestActiveVIPDuplicatePriorityWarnsAndPicksLowestID(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idB, quantity: 2, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackGold}}),
		buildItem(itemSpec{id: idA, quantity: 2, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackGold}}),
	}

	active, warnings := ActiveVIP(items, enums.PackGold)
	if active == nil || active.ID.String() != idA {
		t.Fatalf("expected lowest id %s to win the tie, got %v", idA, active)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a duplicate-priority warning")
	}
}

func TestActiveVIPIgnoresOtherPacks(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 1, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackBlue}}),
	}

	active, _ := ActiveVIP(items, enums.PackGold)
	if active != nil {
		t.Fatalf("expected no active vip for gold, got %s", active.ID)
	}
}

func TestLivePoolExcludesShadowedVIP(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 1, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackGold}}),
		buildItem(itemSpec{id: idB, quantity: 3, value: 60000, tier: enums.TierVIP, priority: 2, packs: types.PackSet{enums.PackGold}}),
		buildItem(itemSpec{id: idC, quantity: 10, value: 15000, tier: enums.TierUpper}),
	}

	live, _ := LivePool(items, enums.PackGold)
	if len(live) != 2 {
		t.Fatalf("live pool size = %d, want 2", len(live))
	}
	for _, item := range live {
		if item.ID.String() == idB {
			t.Fatal("shadowed vip item must not appear in the live pool")
		}
	}
}

func TestLivePoolSkipsWithdrawnAndEmpty(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 5, value: 15000, tier: enums.TierUpper, status: enums.ItemStatusWithdrawn}),
		buildItem(itemSpec{id: idB, quantity: 0, value: 15000, tier: enums.TierUpper}),
		buildItem(itemSpec{id: idC, quantity: 2, value: 15000, tier: enums.TierUpper}),
	}

	live, _ := LivePool(items, enums.PackBlue)
	if len(live) != 1 || live[0].ID.String() != idC {
		t.Fatalf("live pool = %v, want only %s", live, idC)
	}
}
