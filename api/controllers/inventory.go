package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/api/responses"
	"github.com/bundledraw/bundledraw-backend/api/validators"
	invsvc "github.com/bundledraw/bundledraw-backend/internal/inventory"
	"github.com/bundledraw/bundledraw-backend/pkg/db/models"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	pkgerrors "github.com/bundledraw/bundledraw-backend/pkg/errors"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
	"github.com/bundledraw/bundledraw-backend/pkg/pagination"
	"github.com/bundledraw/bundledraw-backend/pkg/types"
)

// AdminCreateItem lists new inventory for an event.
func AdminCreateItem(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, itemResponseFrom(item))
	}
}

// AdminUpdateItem mutates an existing item. Absent fields stay untouched.
func AdminUpdateItem(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemResponseFrom(item))
	}
}

// AdminWithdrawItem pulls an item from sale.
func AdminWithdrawItem(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload withdrawItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Withdraw(r.Context(), id, strings.TrimSpace(payload.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemResponseFrom(item))
	}
}

// AdminGetItem loads one item.
func AdminGetItem(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, itemResponseFrom(item))
	}
}

// AdminListInventory pages through an event's items, newest first.
func AdminListInventory(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event id"))
			return
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, convErr := strconv.Atoi(raw)
			if convErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit query parameter must be an integer"))
				return
			}
			params.Limit = limit
		}

		items, next, err := svc.List(r.Context(), eventID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := make([]itemResponse, 0, len(items))
		for i := range items {
			page = append(page, itemResponseFrom(&items[i]))
		}
		responses.WriteSuccess(w, listInventoryResponse{Items: page, NextCursor: next})
	}
}

// AdminCheckIntegrity reports data-entry problems in an event's pool.
func AdminCheckIntegrity(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event id"))
			return
		}

		report, err := svc.CheckIntegrity(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func itemIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return id, nil
}

type createItemRequest struct {
	EventID        string   `json:"event_id" validate:"required,uuid"`
	Description    string   `json:"description" validate:"required,max=512"`
	Kind           string   `json:"kind" validate:"required"`
	Quantity       int      `json:"quantity" validate:"required,min=1"`
	UnitValueCents int64    `json:"unit_value_cents" validate:"required,min=1"`
	Tier           string   `json:"tier,omitempty"`
	TierPriority   int      `json:"tier_priority,omitempty" validate:"omitempty,min=1"`
	EligiblePacks  []string `json:"eligible_packs,omitempty"`
	EligibleSizes  []int    `json:"eligible_sizes,omitempty"`
}

func (p createItemRequest) toInput() (invsvc.CreateItemInput, error) {
	eventID, err := uuid.Parse(p.EventID)
	if err != nil {
		return invsvc.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event id")
	}
	kind, err := enums.ParseItemKind(strings.TrimSpace(p.Kind))
	if err != nil {
		return invsvc.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind")
	}

	var tier enums.Tier
	if strings.TrimSpace(p.Tier) != "" {
		tier, err = enums.ParseTier(strings.TrimSpace(p.Tier))
		if err != nil {
			return invsvc.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier")
		}
	}

	packs, err := parsePackSet(p.EligiblePacks)
	if err != nil {
		return invsvc.CreateItemInput{}, err
	}

	return invsvc.CreateItemInput{
		EventID:        eventID,
		Description:    strings.TrimSpace(p.Description),
		Kind:           kind,
		Quantity:       p.Quantity,
		UnitValueCents: p.UnitValueCents,
		TierOverride:   tier,
		TierPriority:   p.TierPriority,
		EligiblePacks:  packs,
		EligibleSizes:  types.SizeSet(p.EligibleSizes),
	}, nil
}

type updateItemRequest struct {
	Description    *string  `json:"description,omitempty" validate:"omitempty,max=512"`
	Quantity       *int     `json:"quantity,omitempty" validate:"omitempty,min=0"`
	UnitValueCents *int64   `json:"unit_value_cents,omitempty" validate:"omitempty,min=1"`
	Tier           *string  `json:"tier,omitempty"`
	TierPriority   *int     `json:"tier_priority,omitempty" validate:"omitempty,min=1"`
	EligiblePacks  []string `json:"eligible_packs,omitempty"`
	EligibleSizes  []int    `json:"eligible_sizes,omitempty"`
}

func (p updateItemRequest) toInput() (invsvc.UpdateItemInput, error) {
	input := invsvc.UpdateItemInput{
		Description:    p.Description,
		Quantity:       p.Quantity,
		UnitValueCents: p.UnitValueCents,
		TierPriority:   p.TierPriority,
		EligibleSizes:  types.SizeSet(p.EligibleSizes),
	}

	if p.Tier != nil {
		tier, err := enums.ParseTier(strings.TrimSpace(*p.Tier))
		if err != nil {
			return invsvc.UpdateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier")
		}
		input.TierOverride = &tier
	}

	packs, err := parsePackSet(p.EligiblePacks)
	if err != nil {
		return invsvc.UpdateItemInput{}, err
	}
	input.EligiblePacks = packs

	return input, nil
}

type withdrawItemRequest struct {
	Reason string `json:"reason" validate:"required,max=512"`
}

func parsePackSet(raw []string) (types.PackSet, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	packs := make(types.PackSet, 0, len(raw))
	for _, value := range raw {
		pack, err := enums.ParsePack(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pack")
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

type itemResponse struct {
	ID             uuid.UUID        `json:"id"`
	EventID        uuid.UUID        `json:"event_id"`
	Description    string           `json:"description"`
	Kind           enums.ItemKind   `json:"kind"`
	Quantity       int              `json:"quantity"`
	UnitValueCents int64            `json:"unit_value_cents"`
	Tier           enums.Tier       `json:"tier"`
	TierPriority   int              `json:"tier_priority,omitempty"`
	EligiblePacks  types.PackSet    `json:"eligible_packs"`
	EligibleSizes  types.SizeSet    `json:"eligible_sizes"`
	Status         enums.ItemStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type listInventoryResponse struct {
	Items      []itemResponse `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func itemResponseFrom(item *models.InventoryItem) itemResponse {
	return itemResponse{
		ID:             item.ID,
		EventID:        item.EventID,
		Description:    item.Description,
		Kind:           item.Kind,
		Quantity:       item.Quantity,
		UnitValueCents: item.UnitValueCents,
		Tier:           item.Tier,
		TierPriority:   item.TierPriority,
		EligiblePacks:  item.EligiblePacks,
		EligibleSizes:  item.EligibleSizes,
		Status:         item.Status,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
