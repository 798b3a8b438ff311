package draw

import (
	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

type itemSpec struct {
	id       string
	kind     enums.ItemKind
	quantity int
	value    int64
	tier     enums.Tier
	priority int
	packs    types.PackSet
	sizes    types.SizeSet
	status   enums.ItemStatus
}

func buildItem(spec itemSpec) models.InventoryItem {
	status := spec.status
	if status == "" {
		status = enums.ItemStatusAvailable
	}
	kind := spec.kind
	if kind == "" {
		kind = enums.ItemKindSeatPool
	}
	packs := spec.packs
	if packs == nil {
		packs = types.AllPacks()
	}
	sizes := spec.sizes
	if sizes == nil {
		sizes = types.AllSizes()
	}
	return models.InventoryItem{
		ID:             uuid.MustParse(spec.id),
		EventID:        uuid.MustParse("00000000-0000-0000-0000-0000000000ee"),
		Description:    "item " + spec.id,
		Kind:           kind,
		Quantity:       spec.quantity,
		UnitValueCents: spec.value,
		Tier:           spec.tier,
		TierPriority:   spec.priority,
		EligiblePacks:  packs,
		EligibleSizes:  sizes,
		Status:         status,
	}
}

const (
	idA = "00000000-0000-0000-0000-00000000000a"
	idB = "00000000-0000-0000-0000-00000000000b"
	idC = "00000000-0000-0000-0000-00000000000c"
	idD = "00000000-0000-0000-0000-00000000000d"
)
