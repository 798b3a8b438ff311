package allocation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:allocation_repo_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(testSchema).Error)
	return db
}

func sampleAllocation(eventID uuid.UUID, paymentRef string) *models.Allocation {
	return &models.Allocation{
		EventID:        eventID,
		BuyerRef:       "buyer-7",
		Pack:           enums.PackBlue,
		BundleSize:     2,
		PricePaidCents: 26000,
		PaymentRef:     paymentRef,
		Items: []models.AllocationItem{
			{InventoryItemID: uuid.New(), Description: "floor seat", UnitValueCents: 12000, Units: 1},
			{InventoryItemID: uuid.New(), Description: "tour poster", UnitValueCents: 8000, Units: 1},
		},
	}
}

func TestRepositoryCreateAssignsIDs(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := sampleAllocation(uuid.New(), "pay_create_1")
	require.NoError(t, repo.Create(ctx, record))

	assert.NotEqual(t, uuid.Nil, record.ID)
	for _, item := range record.Items {
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, record.ID, item.AllocationID)
	}

	loaded, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.PaymentRef, loaded.PaymentRef)
	assert.Len(t, loaded.Items, 2)
}

func TestRepositoryCreateRejectsDuplicatePaymentRef(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	eventID := uuid.New()
	require.NoError(t, repo.Create(ctx, sampleAllocation(eventID, "pay_dup")))

	err := repo.Create(ctx, sampleAllocation(eventID, "pay_dup"))
	require.Error(t, err)
}

func TestRepositoryFindByPaymentRef(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := sampleAllocation(uuid.New(), "pay_lookup")
	require.NoError(t, repo.Create(ctx, record))

	found, err := repo.FindByPaymentRef(ctx, "pay_lookup")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, record.ID, found.ID)
	assert.Len(t, found.Items, 2)

	missing, err := repo.FindByPaymentRef(ctx, "pay_unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
