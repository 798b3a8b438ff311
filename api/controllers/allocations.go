package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/api/responses"
	"github.com/bundledraw/bundledraw-backend/api/validators"
	allocsvc "github.com/bundledraw/bundledraw-backend/internal/allocation"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	pkgerrors "github.com/bundledraw/bundledraw-backend/pkg/errors"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
)

// AllocateBundle commits a paid draw. Replays of an already-committed
// payment_ref return the original bundle with a 200.
func AllocateBundle(svc allocsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		var payload allocateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Allocate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.Replayed {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

// GetAllocation loads a committed bundle by id.
func GetAllocation(svc allocsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "allocationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid allocation id"))
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type allocateRequest struct {
	EventID    string `json:"event_id" validate:"required,uuid"`
	BuyerRef   string `json:"buyer_ref" validate:"required,max=255"`
	Pack       string `json:"pack" validate:"required"`
	BundleSize int    `json:"bundle_size" validate:"required,min=1,max=4"`
	PaymentRef string `json:"payment_ref" validate:"required,max=255"`
}

func (p allocateRequest) toInput() (allocsvc.AllocateInput, error) {
	eventID, err := uuid.Parse(p.EventID)
	if err != nil {
		return allocsvc.AllocateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event id")
	}
	pack, err := enums.ParsePack(strings.TrimSpace(p.Pack))
	if err != nil {
		return allocsvc.AllocateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pack")
	}
	return allocsvc.AllocateInput{
		EventID:    eventID,
		BuyerRef:   strings.TrimSpace(p.BuyerRef),
		Pack:       pack,
		BundleSize: p.BundleSize,
		PaymentRef: strings.TrimSpace(p.PaymentRef),
	}, nil
}
