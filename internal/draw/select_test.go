package draw

import (
	"errors"
	"testing"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

func totalUnits(selections []Selection) int {
	var n int
	for _, s := range selections {
		n += s.Units
	}
	return n
}

func TestSelectBundleCoversRequestedSize(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 2, value: 15000, tier: enums.TierUpper}),
		buildItem(itemSpec{id: idB, quantity: 1, value: 15000, tier: enums.TierUpper}),
	}

	selections, _, err := SelectBundle(items, enums.PackBlue, 3, NewSeededRNG(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := totalUnits(selections); got != 3 {
		t.Fatalf("selected %d units, want 3", got)
	}
	for _, s := range selections {
		if s.Units > s.Item.Quantity {
			t.Fatalf("item %s over-selected: %d of %d", s.Item.ID, s.Units, s.Item.Quantity)
		}
	}
}

func TestSelectBundleInsufficient(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 2, value: 15000, tier: enums.TierUpper}),
	}

	_, _, err := SelectBundle(items, enums.PackBlue, 3, NewSeededRNG(1))
	if !errors.Is(err, ErrInsufficientUnits) {
		t.Fatalf("err = %v, want ErrInsufficientUnits", err)
	}
}

func TestSelectBundlePrefersExactSeatGroup(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, kind: enums.ItemKindSeatGroup, quantity: 2, value: 20000, tier: enums.TierGold, sizes: types.SizeSet{2}}),
		buildItem(itemSpec{id: idB, quantity: 10, value: 15000, tier: enums.TierUpper}),
	}

	for seed := uint64(0); seed < 10; seed++ {
		selections, _, err := SelectBundle(items, enums.PackBlue, 2, NewSeededRNG(seed))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if len(selections) != 1 || selections[0].Item.ID.String() != idA {
			t.Fatalf("seed %d: expected the exact-size seat group, got %v", seed, selections)
		}
		if selections[0].Units != 2 {
			t.Fatalf("seed %d: seat group must be consumed whole, got %d units", seed, selections[0].Units)
		}
	}
}

func TestSelectBundleNeverSplitsSeatGroups(t *testing.T) {
	// The group serves sizes 2 and 3, so it is not an exact match for 3 and
	// must not be broken into single units either.
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, kind: enums.ItemKindSeatGroup, quantity: 3, value: 20000, tier: enums.TierGold, sizes: types.SizeSet{2, 3}}),
		buildItem(itemSpec{id: idB, quantity: 1, value: 15000, tier: enums.TierUpper}),
	}

	_, _, err := SelectBundle(items, enums.PackBlue, 3, NewSeededRNG(1))
	if !errors.Is(err, ErrInsufficientUnits) {
		t.Fatalf("err = %v, want ErrInsufficientUnits (groups are indivisible)", err)
	}
}

func TestSelectBundleOnlyReachesActiveVIP(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 1, value: 60000, tier: enums.TierVIP, priority: 1, packs: types.PackSet{enums.PackGold}}),
		buildItem(itemSpec{id: idB, quantity: 5, value: 60000, tier: enums.TierVIP, priority: 2, packs: types.PackSet{enums.PackGold}}),
	}

	for seed := uint64(0); seed < 20; seed++ {
		selections, _, err := SelectBundle(items, enums.PackGold, 1, NewSeededRNG(seed))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if len(selections) != 1 || selections[0].Item.ID.String() != idA {
			t.Fatalf("seed %d: drew shadowed vip item: %v", seed, selections)
		}
	}
}

func TestSelectBundleDeterministicForSeed(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 4, value: 15000, tier: enums.TierUpper}),
		buildItem(itemSpec{id: idB, quantity: 6, value: 12000, tier: enums.TierUpper}),
		buildItem(itemSpec{id: idC, quantity: 2, value: 18000, tier: enums.TierUpper}),
	}

	first, _, err := SelectBundle(items, enums.PackRed, 4, NewSeededRNG(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := SelectBundle(items, enums.PackRed, 4, NewSeededRNG(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("plans differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Item.ID != second[i].Item.ID || first[i].Units != second[i].Units {
			t.Fatalf("plans diverge at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSelectBundleWeightedTowardLargerStock(t *testing.T) {
	items := []models.InventoryItem{
		buildItem(itemSpec{id: idA, quantity: 90, value: 15000, tier: enums.TierUpper}),
		buildItem(itemSpec{id: idB, quantity: 10, value: 15000, tier: enums.TierUpper}),
	}

	var hitsA int
	const draws = 400
	for seed := uint64(0); seed < draws; seed++ {
		selections, _, err := SelectBundle(items, enums.PackBlue, 1, NewSeededRNG(seed))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if selections[0].Item.ID.String() == idA {
			hitsA++
		}
	}

	// Expected hit rate for A is 90%. Allow a generous band to keep the
	// test stable across PCG stream changes.
	if hitsA < draws*3/4 {
		t.Fatalf("item with 90%% of stock hit only %d/%d draws", hitsA, draws)
	}
}
