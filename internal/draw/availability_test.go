package draw

import (
	"reflect"
	"testing"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

func TestAvailableSizesSumsEligibleUnits(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 2, value: 15000, tier: enums.TierUpper, sizes: types.SizeSet{1, 2}}),
		buildItem(itemSpec{id: idB, quantity: 1, value: 15000, tier: enums.TierUpper, sizes: types.SizeSet{1, 3}}),
	}

	got := AvailableSizes(items, enums.PackBlue)
	// size 1: 3 units; size 2: 2 units; size 3: 1 unit (< 3); size 4: none.
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("available sizes = %v, want %v", got, want)
	}
}

func TestAvailableSizesEmptyPool(t *testing.T) {
	got := AvailableSizes(nil, enums.PackGold)
	if len(got) != 0 {
		t.Fatalf("available sizes = %v, want none", got)
	}
}

func TestAvailableSizesOnlyCountsActiveVIP(t *testing.T) {
	// Two VIP items with 2 units each: only the active one counts, so
	// size 4 stays unavailable even though total stock is 4.
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 2, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackGold}}),
		buildItem(itemSpec{id: idB, quantity: 2, value: 60000, tier: enums.TierVIP, priority: 2, packs: types.PackSet{enums.PackGold}}),
	}

	got := AvailableSizes(items, enums.PackGold)
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("available sizes = %v, want %v", got, want)
	}
}

func TestAvailableSizesSeatGroupCountsOnlyExactSize(t *testing.T) {
	// A seat-group spread over {1,2} can never be drawn at either size (it is
	// only consumed whole at an exact match), so neither is advertised.
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, kind: enums.ItemKindSeatGroup, quantity: 2, value: 20000, tier: enums.TierUpper, sizes: types.SizeSet{1, 2}}),
	}
	if got := AvailableSizes(items, enums.PackBlue); len(got) != 0 {
		t.Fatalf("available sizes = %v, want none for a multi-size seat group", got)
	}

	// Pinned to its one size, the group is sellable there and nowhere else.
	items[0].EligibleSizes = types.SizeSet{2}
	got := AvailableSizes(items, enums.PackBlue)
	if !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("available sizes = %v, want [2]", got)
	}

	// Every advertised size must be coverable by a draw.
	if _, _, err := SelectBundle(items, enums.PackBlue, 2, NewSeededRNG(1)); err != nil {
		t.Fatalf("advertised size 2 not drawable: %v", err)
	}
}

func TestAvailableSizesPackSpecific(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 4, value: 15000, tier: enums.TierUpper, packs: types.PackSet{enums.PackBlue}}),
	}

	if got := AvailableSizes(items, enums.PackBlue); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("blue sizes = %v, want all", got)
	}
	if got := AvailableSizes(items, enums.PackRed); len(got) != 0 {
		t.Fatalf("red sizes = %v, want none", got)
	}
}
