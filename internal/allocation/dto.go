package allocation

import (
	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// AllocateInput is one buyer's paid draw request.
type AllocateInput struct {
	EventID    uuid.UUID
	BuyerRef   string
	Pack       enums.Pack
	BundleSize int
	PaymentRef string
}

// BundleItem is one item reference inside a committed bundle.
type BundleItem struct {
	ItemID      uuid.UUID `json:"item_id"`
	Description string    `json:"description"`
	ValueCents  int64     `json:"value_cents"`
	Units       int       `json:"units"`
}

// Result is the committed outcome of a draw.
type Result struct {
	AllocationID   uuid.UUID    `json:"allocation_id"`
	Bundle         []BundleItem `json:"bundle"`
	PricePaidCents int64        `json:"price_paid_cents"`
	Replayed       bool         `json:"replayed,omitempty"`
}
