package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/pagination"
)

// Repository provides persistence for inventory items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new inventory item.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads one item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Save persists changes to an existing item.
func (r *Repository) Save(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListByEvent returns a page of the event's items, newest first, with a
// cursor for the next page.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID, params pagination.Params) ([]models.InventoryItem, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.InventoryItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// ListAvailableByEvent loads the event's sellable pool without locking.
// Quote paths read through here; staleness is acceptable because allocation
// re-validates under locks.
func (r *Repository) ListAvailableByEvent(ctx context.Context, eventID uuid.UUID) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, enums.ItemStatusAvailable).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListAvailableByEventForUpdate loads the sellable pool holding row locks for
// the remainder of the surrounding transaction. Must be called on a
// transaction-bound repository.
func (r *Repository) ListAvailableByEventForUpdate(ctx context.Context, eventID uuid.UUID) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ? AND status = ?", eventID, enums.ItemStatusAvailable).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// DecrementQuantity atomically consumes units from an available item. The
// guarded predicate is the compare-and-swap that keeps totals non-negative
// under concurrent draws; a false return means the caller lost the race.
func (r *Repository) DecrementQuantity(ctx context.Context, id uuid.UUID, units int) (bool, error) {
	if units <= 0 {
		return false, errors.New("units must be positive")
	}
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND status = ? AND quantity >= ?", id, enums.ItemStatusAvailable, units).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", units),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	// Exhausted items flip to allocated so they leave the sellable pool.
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantity = 0 AND status = ?", id, enums.ItemStatusAvailable).
		Update("status", enums.ItemStatusAllocated).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkWithdrawn pulls an item from sale.
func (r *Repository) MarkWithdrawn(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND status IN ?", id, []enums.ItemStatus{enums.ItemStatusAvailable, enums.ItemStatusReserved}).
		Updates(map[string]any{
			"status":     enums.ItemStatusWithdrawn,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
