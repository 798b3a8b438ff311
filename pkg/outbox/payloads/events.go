package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// AllocationItemRef describes one inventory item consumed by a committed draw.
type AllocationItemRef struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	Description     string    `json:"description"`
	UnitValueCents  int64     `json:"unit_value_cents"`
	Units           int       `json:"units"`
}

// AllocationCommittedEvent is emitted once a bundle draw is durably committed.
type AllocationCommittedEvent struct {
	AllocationID   uuid.UUID           `json:"allocation_id"`
	EventID        uuid.UUID           `json:"event_id"`
	BuyerRef       string              `json:"buyer_ref"`
	Pack           enums.Pack          `json:"pack"`
	BundleSize     int                 `json:"bundle_size"`
	PricePaidCents int64               `json:"price_paid_cents"`
	PaymentRef     string              `json:"payment_ref"`
	Items          []AllocationItemRef `json:"items"`
	CommittedAt    time.Time           `json:"committed_at"`
}

// InventoryWithdrawnEvent signals an operator pulled an item from sale.
type InventoryWithdrawnEvent struct {
	InventoryItemID uuid.UUID      `json:"inventory_item_id"`
	EventID         uuid.UUID      `json:"event_id"`
	Kind            enums.ItemKind `json:"kind"`
	RemainingUnits  int            `json:"remaining_units"`
	WithdrawnAt     time.Time      `json:"withdrawn_at"`
	Reason          string         `json:"reason,omitempty"`
}
