package allocation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
)

// Repository persists committed allocations.
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

// Create writes the allocation and its item rows. IDs are assigned here so
// the rows are addressable before the transaction commits.
func (r *Repository) Create(ctx context.Context, record *models.Allocation) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	for i := range record.Items {
		if record.Items[i].ID == uuid.Nil {
			record.Items[i].ID = uuid.New()
		}
		record.Items[i].AllocationID = record.ID
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByID loads one allocation with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Allocation, error) {
	var record models.Allocation
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByPaymentRef loads the allocation committed against a payment, if any.
// Payment references are unique, so a hit means the draw already ran.
func (r *Repository) FindByPaymentRef(ctx context.Context, paymentRef string) (*models.Allocation, error) {
	var record models.Allocation
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&record, "payment_ref = ?", paymentRef).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
