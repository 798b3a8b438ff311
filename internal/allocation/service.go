package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bundledraw/bundledraw-backend/internal/draw"
	"github.com/bundledraw/bundledraw-backend/internal/inventory"
	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	pkgerrors "github.com/bundledraw/bundledraw-backend/pkg/errors"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
	"github.com/bundledraw/bundledraw-backend/pkg/metrics"
	"github.com/bundledraw/bundledraw-backend/pkg/outbox"
	"github.com/bundledraw/bundledraw-backend/pkg/outbox/payloads"
)

// errLostRace aborts the transaction when a guarded decrement hits zero rows.
// The caller re-plans against fresh state.
var errLostRace = errors.New("allocation lost a decrement race")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type paymentVerifier interface {
	VerifyPaymentCompleted(ctx context.Context, paymentRef string, expectedAmountCents int64) error
}

// Config carries the pricing and retry knobs the service needs.
type Config struct {
	Margin        decimal.Decimal
	FallbackCents int64
	MaxRetries    int
}

// Service runs the paid draw: re-validates availability, plans a weighted
// random bundle, and commits it atomically against the inventory pool.
type Service interface {
	Allocate(ctx context.Context, input AllocateInput) (*Result, error)
	Get(ctx context.Context, id uuid.UUID) (*Result, error)
}

type service struct {
	tx       txRunner
	repo     *Repository
	invRepo  *inventory.Repository
	payments paymentVerifier
	outbox   outboxPublisher
	metrics  *metrics.AllocationMetrics
	logg     *logger.Logger
	rng      draw.RandomSource
	cfg      Config
}

// NewService builds the allocation service.
func NewService(
	tx txRunner,
	repo *Repository,
	invRepo *inventory.Repository,
	payments paymentVerifier,
	publisher outboxPublisher,
	allocMetrics *metrics.AllocationMetrics,
	logg *logger.Logger,
	rng draw.RandomSource,
	cfg Config,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("allocation repository required")
	}
	if invRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment verifier required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rng == nil {
		rng = draw.DefaultRNG()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Margin.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("margin must be positive")
	}
	return &service{
		tx:       tx,
		repo:     repo,
		invRepo:  invRepo,
		payments: payments,
		outbox:   publisher,
		metrics:  allocMetrics,
		logg:     logg,
		rng:      rng,
		cfg:      cfg,
	}, nil
}

func (s *service) Allocate(ctx context.Context, input AllocateInput) (*Result, error) {
	started := time.Now()
	result, err := s.allocate(ctx, input)

	pack := input.Pack.String()
	s.metrics.ObserveDuration(pack, time.Since(started))
	if err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		s.metrics.IncFailure(pack, code)
		return nil, err
	}
	if !result.Replayed {
		s.metrics.IncSuccess(pack)
	}
	return result, nil
}

func (s *service) allocate(ctx context.Context, input AllocateInput) (*Result, error) {
	if input.EventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	if input.BuyerRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer reference required")
	}
	if !input.Pack.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid pack %q", input.Pack))
	}
	if input.BundleSize < 1 || input.BundleSize > 4 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid bundle size %d", input.BundleSize))
	}
	if input.PaymentRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	ctx = s.logg.WithEventID(ctx, input.EventID.String())
	ctx = s.logg.WithPack(ctx, input.Pack.String())

	// A payment reference that already has an allocation is a replay: hand
	// back the committed bundle instead of drawing twice.
	if existing, err := s.repo.FindByPaymentRef(ctx, input.PaymentRef); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up payment reference")
	} else if existing != nil {
		s.logg.Info(ctx, fmt.Sprintf("allocation replay for payment %s", input.PaymentRef))
		result := resultFromRecord(existing)
		result.Replayed = true
		return result, nil
	}

	// Price from the live pool; the payment must cover it. Staleness here is
	// fine, the transaction below re-validates everything that matters.
	pool, err := s.invRepo.ListAvailableByEvent(ctx, input.EventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory pool")
	}
	price := draw.Quote(pool, input.Pack, input.BundleSize, s.cfg.Margin, s.cfg.FallbackCents)

	if err := s.payments.VerifyPaymentCompleted(ctx, input.PaymentRef, price); err != nil {
		// An insufficient-inventory verdict from the verifier means the
		// payment IS captured but depletion moved the price past it. Funds
		// exist, so the boundary must refund before the buyer re-quotes.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientInventory {
			return nil, refundRequired(typed)
		}
		return nil, err
	}

	// Payment is captured from here on: every failure below must tell the
	// boundary to refund.
	var result *Result
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		result, err = s.tryAllocate(ctx, input, price)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, errLostRace) {
			s.logg.Warn(ctx, fmt.Sprintf("allocation attempt %d lost a race, retrying", attempt+1))
			continue
		}
		return nil, refundRequired(err)
	}

	return nil, refundRequired(pkgerrors.New(pkgerrors.CodeInsufficientInventory,
		"inventory contention exhausted allocation retries"))
}

func (s *service) tryAllocate(ctx context.Context, input AllocateInput, price int64) (*Result, error) {
	var record *models.Allocation

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.invRepo.WithTx(tx)
		repo := s.repo.WithTx(tx)

		pool, err := invRepo.ListAvailableByEventForUpdate(ctx, input.EventID)
		if err != nil {
			return err
		}

		plan, warnings, err := draw.SelectBundle(pool, input.Pack, input.BundleSize, s.rng)
		for _, warning := range warnings {
			s.logg.Warn(ctx, fmt.Sprintf("pool integrity: %s (item %s)", warning.Message, warning.ItemID))
		}
		if err != nil {
			if errors.Is(err, draw.ErrInsufficientUnits) {
				return pkgerrors.New(pkgerrors.CodeInsufficientInventory,
					fmt.Sprintf("pack %s cannot cover bundle size %d", input.Pack, input.BundleSize))
			}
			return err
		}

		for _, selection := range plan {
			ok, err := invRepo.DecrementQuantity(ctx, selection.Item.ID, selection.Units)
			if err != nil {
				return err
			}
			if !ok {
				return errLostRace
			}
		}

		record = &models.Allocation{
			EventID:        input.EventID,
			BuyerRef:       input.BuyerRef,
			Pack:           input.Pack,
			BundleSize:     input.BundleSize,
			PricePaidCents: price,
			PaymentRef:     input.PaymentRef,
		}
		for _, selection := range plan {
			record.Items = append(record.Items, models.AllocationItem{
				InventoryItemID: selection.Item.ID,
				Description:     selection.Item.Description,
				UnitValueCents:  selection.Item.UnitValueCents,
				Units:           selection.Units,
			})
		}
		if err := repo.Create(ctx, record); err != nil {
			return err
		}

		itemRefs := make([]payloads.AllocationItemRef, 0, len(record.Items))
		for _, item := range record.Items {
			itemRefs = append(itemRefs, payloads.AllocationItemRef{
				InventoryItemID: item.InventoryItemID,
				Description:     item.Description,
				UnitValueCents:  item.UnitValueCents,
				Units:           item.Units,
			})
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAllocationCommitted,
			AggregateType: enums.AggregateAllocation,
			AggregateID:   record.ID,
			Version:       1,
			Data: payloads.AllocationCommittedEvent{
				AllocationID:   record.ID,
				EventID:        record.EventID,
				BuyerRef:       record.BuyerRef,
				Pack:           record.Pack,
				BundleSize:     record.BundleSize,
				PricePaidCents: record.PricePaidCents,
				PaymentRef:     record.PaymentRef,
				Items:          itemRefs,
				CommittedAt:    time.Now(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(ctx, fmt.Sprintf("allocation %s committed: %d items for %d cents",
		record.ID, len(record.Items), record.PricePaidCents))
	return resultFromRecord(record), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Result, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "allocation not found")
		}
		return nil, err
	}
	return resultFromRecord(record), nil
}

// refundRequired marks a post-payment failure so the boundary triggers the
// compensating refund. Inventory is untouched, the transaction rolled back.
func refundRequired(err error) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocation failed after payment capture")
	}
	return typed.WithDetails(map[string]any{"refund_required": true})
}

func resultFromRecord(record *models.Allocation) *Result {
	bundle := make([]BundleItem, 0, len(record.Items))
	for _, item := range record.Items {
		bundle = append(bundle, BundleItem{
			ItemID:      item.InventoryItemID,
			Description: item.Description,
			ValueCents:  item.UnitValueCents,
			Units:       item.Units,
		})
	}
	return &Result{
		AllocationID:   record.ID,
		Bundle:         bundle,
		PricePaidCents: record.PricePaidCents,
	}
}
