package inventory

import (
	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

// CreateItemInput captures everything an operator supplies when listing
// inventory. Tier is advisory: when empty it is derived from the unit value.
type CreateItemInput struct {
	EventID        uuid.UUID
	Description    string
	Kind           enums.ItemKind
	Quantity       int
	UnitValueCents int64
	TierOverride   enums.Tier
	TierPriority   int
	EligiblePacks  types.PackSet
	EligibleSizes  types.SizeSet
}

// UpdateItemInput carries the mutable fields. Nil pointers leave the stored
// value untouched.
type UpdateItemInput struct {
	Description    *string
	Quantity       *int
	UnitValueCents *int64
	TierOverride   *enums.Tier
	TierPriority   *int
	EligiblePacks  types.PackSet
	EligibleSizes  types.SizeSet
}

// IntegrityReport lists data-entry problems found in an event's pool.
// Warnings do not block allocation; the draw path still picks deterministic
// winners around them.
type IntegrityReport struct {
	EventID  uuid.UUID `json:"event_id"`
	Warnings []string  `json:"warnings"`
}
