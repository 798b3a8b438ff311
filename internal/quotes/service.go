package quotes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bundledraw/bundledraw-backend/internal/draw"
	"github.com/bundledraw/bundledraw-backend/internal/inventory"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	pkgerrors "github.com/bundledraw/bundledraw-backend/pkg/errors"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
	"github.com/bundledraw/bundledraw-backend/pkg/metrics"
)

// Quote is the buyer-facing price for one pack/size combination.
type Quote struct {
	EventID    uuid.UUID  `json:"event_id"`
	Pack       enums.Pack `json:"pack"`
	BundleSize int        `json:"bundle_size"`
	PriceCents int64      `json:"price_cents"`
}

// Availability lists the bundle sizes a pack can currently serve.
type Availability struct {
	EventID uuid.UUID  `json:"event_id"`
	Pack    enums.Pack `json:"pack"`
	Sizes   []int      `json:"sizes"`
}

// Service serves read-only pricing and availability. Both are live functions
// of remaining inventory and recomputed on every call; no caching, no locks.
type Service interface {
	GetPriceQuote(ctx context.Context, eventID uuid.UUID, pack enums.Pack, bundleSize int) (*Quote, error)
	GetAvailableBundleSizes(ctx context.Context, eventID uuid.UUID, pack enums.Pack) (*Availability, error)
}

type service struct {
	repo          *inventory.Repository
	metrics       *metrics.AllocationMetrics
	logg          *logger.Logger
	margin        decimal.Decimal
	fallbackCents int64
}

// NewService builds the quote service.
func NewService(repo *inventory.Repository, allocMetrics *metrics.AllocationMetrics, logg *logger.Logger, margin decimal.Decimal, fallbackCents int64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if margin.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("margin must be positive")
	}
	return &service{
		repo:          repo,
		metrics:       allocMetrics,
		logg:          logg,
		margin:        margin,
		fallbackCents: fallbackCents,
	}, nil
}

func (s *service) GetPriceQuote(ctx context.Context, eventID uuid.UUID, pack enums.Pack, bundleSize int) (*Quote, error) {
	if eventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	if !pack.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid pack %q", pack))
	}
	if bundleSize < 1 || bundleSize > 4 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid bundle size %d", bundleSize))
	}

	pool, err := s.repo.ListAvailableByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory pool")
	}

	price := draw.Quote(pool, pack, bundleSize, s.margin, s.fallbackCents)
	s.metrics.IncQuote(pack.String())
	return &Quote{
		EventID:    eventID,
		Pack:       pack,
		BundleSize: bundleSize,
		PriceCents: price,
	}, nil
}

func (s *service) GetAvailableBundleSizes(ctx context.Context, eventID uuid.UUID, pack enums.Pack) (*Availability, error) {
	if eventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	if !pack.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid pack %q", pack))
	}

	pool, err := s.repo.ListAvailableByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory pool")
	}

	return &Availability{
		EventID: eventID,
		Pack:    pack,
		Sizes:   draw.AvailableSizes(pool, pack),
	}, nil
}
