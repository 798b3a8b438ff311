package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/bundledraw/bundledraw-backend/internal/tiering"
	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	pkgerrors "github.com/bundledraw/bundledraw-backend/pkg/errors"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
	"github.com/bundledraw/bundledraw-backend/pkg/outbox"
	"github.com/bundledraw/bundledraw-backend/pkg/outbox/payloads"
	"github.com/bundledraw/bundledraw-backend/pkg/pagination"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service manages the inventory an event sells from.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	Withdraw(ctx context.Context, id uuid.UUID, reason string) (*models.InventoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, eventID uuid.UUID, params pagination.Params) ([]models.InventoryItem, string, error)
	CheckIntegrity(ctx context.Context, eventID uuid.UUID) (*IntegrityReport, error)
}

type service struct {
	tx     txRunner
	repo   *Repository
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds the inventory service.
func NewService(tx txRunner, repo *Repository, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, repo: repo, outbox: publisher, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	if input.EventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	if input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid item kind %q", input.Kind))
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.UnitValueCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit value must not be negative")
	}

	tier := input.TierOverride
	if tier == "" || tier == enums.TierNone {
		tier = tiering.Classify(input.UnitValueCents)
	}
	if !tier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid tier %q", tier))
	}
	if tier == enums.TierVIP && input.TierPriority <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vip items require a positive tier priority")
	}

	packs := input.EligiblePacks
	if len(packs) == 0 {
		packs = types.AllPacks()
	}
	if err := packs.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid eligible packs")
	}
	sizes := input.EligibleSizes
	if len(sizes) == 0 {
		sizes = types.AllSizes()
	}
	if err := sizes.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid eligible sizes")
	}
	// Seat-groups are consumed whole at exactly one size; a wider set would
	// advertise bundles the draw can never fill.
	if input.Kind == enums.ItemKindSeatGroup && len(sizes) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seat groups must be eligible for exactly one bundle size")
	}

	item := &models.InventoryItem{
		EventID:        input.EventID,
		Description:    input.Description,
		Kind:           input.Kind,
		Quantity:       input.Quantity,
		UnitValueCents: input.UnitValueCents,
		Tier:           tier,
		TierPriority:   input.TierPriority,
		EligiblePacks:  packs,
		EligibleSizes:  sizes,
		Status:         enums.ItemStatusAvailable,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating inventory item")
	}

	logCtx := s.logg.WithEventID(ctx, created.EventID.String())
	s.logg.Info(logCtx, fmt.Sprintf("inventory item %s created (%s, qty %d)", created.ID, created.Tier, created.Quantity))
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	var updated *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return err
		}
		if item.Status == enums.ItemStatusWithdrawn {
			return pkgerrors.New(pkgerrors.CodeConflict, "withdrawn items cannot be updated")
		}

		if input.Description != nil {
			item.Description = *input.Description
		}
		if input.Quantity != nil {
			if *input.Quantity < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
			}
			item.Quantity = *input.Quantity
		}
		if input.UnitValueCents != nil {
			if *input.UnitValueCents < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "unit value must not be negative")
			}
			item.UnitValueCents = *input.UnitValueCents
			if input.TierOverride == nil {
				item.Tier = tiering.Classify(item.UnitValueCents)
			}
		}
		if input.TierOverride != nil {
			if !input.TierOverride.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid tier %q", *input.TierOverride))
			}
			item.Tier = *input.TierOverride
		}
		if input.TierPriority != nil {
			item.TierPriority = *input.TierPriority
		}
		if item.Tier == enums.TierVIP && item.TierPriority <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "vip items require a positive tier priority")
		}
		if input.EligiblePacks != nil {
			if err := input.EligiblePacks.Validate(); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid eligible packs")
			}
			item.EligiblePacks = input.EligiblePacks
		}
		if input.EligibleSizes != nil {
			if err := input.EligibleSizes.Validate(); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid eligible sizes")
			}
			item.EligibleSizes = input.EligibleSizes
		}
		if item.Kind == enums.ItemKindSeatGroup && len(item.EligibleSizes) != 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "seat groups must be eligible for exactly one bundle size")
		}

		updated, err = repo.Save(ctx, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Withdraw(ctx context.Context, id uuid.UUID, reason string) (*models.InventoryItem, error) {
	var withdrawn *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ok, err := repo.MarkWithdrawn(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "item is not withdrawable")
		}
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		withdrawn = item

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInventoryWithdrawn,
			AggregateType: enums.AggregateInventoryItem,
			AggregateID:   item.ID,
			Version:       1,
			Data: payloads.InventoryWithdrawnEvent{
				InventoryItemID: item.ID,
				EventID:         item.EventID,
				Kind:            item.Kind,
				RemainingUnits:  item.Quantity,
				WithdrawnAt:     time.Now(),
				Reason:          reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithEventID(ctx, withdrawn.EventID.String())
	s.logg.Info(logCtx, fmt.Sprintf("inventory item %s withdrawn", withdrawn.ID))
	return withdrawn, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, err
	}
	return item, nil
}

func (s *service) List(ctx context.Context, eventID uuid.UUID, params pagination.Params) ([]models.InventoryItem, string, error) {
	if eventID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	return s.repo.ListByEvent(ctx, eventID, params)
}

// CheckIntegrity scans an event's pool for data-entry problems: duplicate
// VIP priorities, empty eligibility sets, vip rows missing a rank, seat
// groups spread over several sizes. Problems are reported, never fixed
// silently, and they do not block draws.
func (s *service) CheckIntegrity(ctx context.Context, eventID uuid.UUID) (*IntegrityReport, error) {
	if eventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	items, err := s.repo.ListAvailableByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var issues error
	for i := range items {
		item := items[i]
		if err := item.EligiblePacks.Validate(); err != nil {
			issues = multierr.Append(issues, fmt.Errorf("item %s: %w", item.ID, err))
		}
		if err := item.EligibleSizes.Validate(); err != nil {
			issues = multierr.Append(issues, fmt.Errorf("item %s: %w", item.ID, err))
		}
		if item.Tier == enums.TierVIP && item.TierPriority <= 0 {
			issues = multierr.Append(issues, fmt.Errorf("item %s: vip item missing tier priority", item.ID))
		}
		if item.Kind == enums.ItemKindSeatGroup && len(item.EligibleSizes) != 1 {
			issues = multierr.Append(issues, fmt.Errorf("item %s: seat group eligible for %d bundle sizes, must be exactly one", item.ID, len(item.EligibleSizes)))
		}
		if item.Quantity < 0 {
			issues = multierr.Append(issues, fmt.Errorf("item %s: negative quantity %d", item.ID, item.Quantity))
		}
	}

	// Duplicate lowest VIP rank per pack: the cascade still picks a
	// deterministic winner, but operators should fix the data.
	for _, pack := range enums.Packs() {
		seen := map[int][]uuid.UUID{}
		for i := range items {
			item := items[i]
			if item.Tier != enums.TierVIP || item.Quantity <= 0 || !item.EligiblePacks.Contains(pack) {
				continue
			}
			seen[item.TierPriority] = append(seen[item.TierPriority], item.ID)
		}
		for priority, ids := range seen {
			if len(ids) > 1 {
				issues = multierr.Append(issues, fmt.Errorf("pack %s: %d vip items share priority %d", pack, len(ids), priority))
			}
		}
	}

	report := &IntegrityReport{EventID: eventID, Warnings: []string{}}
	for _, issue := range multierr.Errors(issues) {
		report.Warnings = append(report.Warnings, issue.Error())
	}
	if len(report.Warnings) > 0 {
		logCtx := s.logg.WithEventID(ctx, eventID.String())
		s.logg.Warn(logCtx, fmt.Sprintf("inventory integrity check found %d issues", len(report.Warnings)))
	}
	return report, nil
}
