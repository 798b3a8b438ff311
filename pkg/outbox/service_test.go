package outbox

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
)

const outboxEventsDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  CONSTRAINT ux_outbox_events_event_aggregate UNIQUE (event_type, aggregate_type, aggregate_id)
);`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:outbox_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Exec(outboxEventsDDL).Error; err != nil {
		t.Fatalf("create outbox_events: %v", err)
	}
	return db
}

func newTestOutbox(t *testing.T) (*Service, *Repository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := NewRepository(db)
	logg := logger.New(logger.Options{ServiceName: "outbox-test", Output: io.Discard})
	return NewService(repo, logg), repo, db
}

func sampleEvent(aggregateID uuid.UUID) DomainEvent {
	return DomainEvent{
		EventType:     enums.EventInventoryWithdrawn,
		AggregateType: enums.AggregateInventoryItem,
		AggregateID:   aggregateID,
		Data:          map[string]any{"reason": "damaged"},
		Version:       1,
	}
}

func TestEmitQueuesEnvelope(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestOutbox(t)
	aggregateID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, sampleEvent(aggregateID))
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	var rows []models.OutboxEvent
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].PublishedAt != nil || rows[0].AttemptCount != 0 {
		t.Fatalf("new rows should be unpublished with zero attempts")
	}
}

func TestEmitIfNotExistsDeduplicates(t *testing.T) {
	t.Parallel()

	svc, _, db := newTestOutbox(t)
	aggregateID := uuid.New()

	for i := 0; i < 2; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.EmitIfNotExists(context.Background(), tx, sampleEvent(aggregateID))
		})
		if err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
	}

	var count int64
	if err := db.Model(&models.OutboxEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row after duplicate emit, got %d", count)
	}
}

func TestFetchUnpublishedSkipsExhaustedRows(t *testing.T) {
	t.Parallel()

	svc, repo, db := newTestOutbox(t)

	healthy := uuid.New()
	stuck := uuid.New()
	for _, id := range []uuid.UUID{healthy, stuck} {
		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.Emit(context.Background(), tx, sampleEvent(id))
		})
		if err != nil {
			t.Fatalf("emit: %v", err)
		}
	}

	var stuckRow models.OutboxEvent
	if err := db.First(&stuckRow, "aggregate_id = ?", stuck).Error; err != nil {
		t.Fatalf("load stuck row: %v", err)
	}
	if err := repo.MarkTerminal(stuckRow.ID, errors.New("bad payload"), 10); err != nil {
		t.Fatalf("mark terminal: %v", err)
	}

	rows, err := repo.FetchUnpublished(50, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 || rows[0].AggregateID != healthy {
		t.Fatalf("expected only the healthy row, got %v", rows)
	}

	if err := repo.MarkPublished(rows[0].ID); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	rows, err = repo.FetchUnpublished(50, 10)
	if err != nil {
		t.Fatalf("fetch after publish: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty backlog, got %d rows", len(rows))
	}
}

func TestMarkFailedIncrementsAttempts(t *testing.T) {
	t.Parallel()

	svc, repo, db := newTestOutbox(t)
	aggregateID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, sampleEvent(aggregateID))
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	var row models.OutboxEvent
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if err := repo.MarkFailed(row.ID, errors.New("transient")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	if err := db.First(&row, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload row: %v", err)
	}
	if row.AttemptCount != 1 || row.LastError == nil || *row.LastError != "transient" {
		t.Fatalf("unexpected row after failure: attempts=%d last_error=%v", row.AttemptCount, row.LastError)
	}
}
