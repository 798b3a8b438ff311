package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

// InventoryItem is the unit of allocation: a block of seats, a pool of
// interchangeable seats, or a collectible, scoped to one event.
type InventoryItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID        uuid.UUID        `gorm:"column:event_id;type:uuid;not null;index"`
	Description    string           `gorm:"column:description;not null"`
	Kind           enums.ItemKind   `gorm:"column:kind;type:text;not null"`
	Quantity       int              `gorm:"column:quantity;not null;default:0"`
	UnitValueCents int64            `gorm:"column:unit_value_cents;not null"`
	Tier           enums.Tier       `gorm:"column:tier;type:text;not null;default:'none'"`
	TierPriority   int              `gorm:"column:tier_priority;not null;default:0"`
	EligiblePacks  types.PackSet    `gorm:"column:eligible_packs;type:jsonb;serializer:json"`
	EligibleSizes  types.SizeSet    `gorm:"column:eligible_sizes;type:jsonb;serializer:json"`
	Status         enums.ItemStatus `gorm:"column:status;type:text;not null;default:'available'"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
