package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

// Allocation is the permanent record of one committed bundle draw.
// Rows are written exactly once and never updated.
type Allocation struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID        uuid.UUID        `gorm:"column:event_id;type:uuid;not null;index"`
	BuyerRef       string           `gorm:"column:buyer_ref;not null"`
	Pack           enums.Pack       `gorm:"column:pack;type:text;not null"`
	BundleSize     int              `gorm:"column:bundle_size;not null"`
	PricePaidCents int64            `gorm:"column:price_paid_cents;not null"`
	PaymentRef     string           `gorm:"column:payment_ref;not null;uniqueIndex:ux_allocations_payment_ref"`
	Items          []AllocationItem `gorm:"foreignKey:AllocationID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// AllocationItem references one inventory item consumed by an allocation.
type AllocationItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AllocationID    uuid.UUID `gorm:"column:allocation_id;type:uuid;not null;index"`
	InventoryItemID uuid.UUID `gorm:"column:inventory_item_id;type:uuid;not null"`
	Description     string    `gorm:"column:description;not null"`
	UnitValueCents  int64     `gorm:"column:unit_value_cents;not null"`
	Units           int       `gorm:"column:units;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
