package quotes

import (
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bundledraw/bundledraw-backend/internal/inventory"
	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	pkgerrors "github.com/bundledraw/bundledraw-backend/pkg/errors"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
	"github.com/bundledraw/bundledraw-backend/pkg/metrics"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

const inventoryItemsDDL = `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  description TEXT NOT NULL,
  kind TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  unit_value_cents INTEGER NOT NULL,
  tier TEXT NOT NULL DEFAULT 'none',
  tier_priority INTEGER NOT NULL DEFAULT 0,
  eligible_packs TEXT,
  eligible_sizes TEXT,
  status TEXT NOT NULL DEFAULT 'available',
  created_at DATETIME,
  updated_at DATETIME
);`

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := "file:quotes_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Exec(inventoryItemsDDL).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "quotes-test", Output: io.Discard})
	svc, err := NewService(
		inventory.NewRepository(db),
		metrics.NewAllocationMetrics(prometheus.NewRegistry()),
		logg,
		decimal.RequireFromString("1.30"),
		9900,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func seedItem(t *testing.T, db *gorm.DB, eventID uuid.UUID, quantity int, valueCents int64, tier enums.Tier) {
	t.Helper()
	item := models.InventoryItem{
		ID:             uuid.New(),
		EventID:        eventID,
		Description:    "seed",
		Kind:           enums.ItemKindSeatPool,
		Quantity:       quantity,
		UnitValueCents: valueCents,
		Tier:           tier,
		EligiblePacks:  types.AllPacks(),
		EligibleSizes:  types.AllSizes(),
		Status:         enums.ItemStatusAvailable,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func TestGetPriceQuoteLive(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	eventID := uuid.New()
	seedItem(t, db, eventID, 10, 10000, enums.TierUpper)

	quote, err := svc.GetPriceQuote(ctx, eventID, enums.PackBlue, 2)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.PriceCents != 26000 {
		t.Fatalf("price = %d, want 26000", quote.PriceCents)
	}

	// Depleting stock moves the very next quote.
	if err := db.Model(&models.InventoryItem{}).
		Where("event_id = ?", eventID).
		Update("quantity", 0).Error; err != nil {
		t.Fatalf("deplete: %v", err)
	}
	quote, err = svc.GetPriceQuote(ctx, eventID, enums.PackBlue, 2)
	if err != nil {
		t.Fatalf("quote after depletion: %v", err)
	}
	if quote.PriceCents != 9900 {
		t.Fatalf("price = %d, want fallback 9900", quote.PriceCents)
	}
}

func TestGetPriceQuoteRepeatable(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	eventID := uuid.New()
	seedItem(t, db, eventID, 5, 12000, enums.TierUpper)
	seedItem(t, db, eventID, 1, 60000, enums.TierVIP)

	first, err := svc.GetPriceQuote(ctx, eventID, enums.PackGold, 3)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := svc.GetPriceQuote(ctx, eventID, enums.PackGold, 3)
		if err != nil {
			t.Fatalf("repeat quote: %v", err)
		}
		if again.PriceCents != first.PriceCents {
			t.Fatalf("quote drifted without inventory changes: %d then %d", first.PriceCents, again.PriceCents)
		}
	}
}

func TestGetPriceQuoteValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GetPriceQuote(ctx, uuid.New(), "green", 1); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for bad pack, got %v", err)
	}
	if _, err := svc.GetPriceQuote(ctx, uuid.New(), enums.PackBlue, 9); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for bad size, got %v", err)
	}
}

func TestGetAvailableBundleSizes(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	eventID := uuid.New()
	seedItem(t, db, eventID, 3, 10000, enums.TierUpper)

	availability, err := svc.GetAvailableBundleSizes(ctx, eventID, enums.PackRed)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(availability.Sizes, want) {
		t.Fatalf("sizes = %v, want %v", availability.Sizes, want)
	}
}
