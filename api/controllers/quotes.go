package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bundledraw/bundledraw-backend/api/responses"
	quotesvc "github.com/bundledraw/bundledraw-backend/internal/quotes"
	"github.com/bundledraw/bundledraw-backend/pkg/enums"
	pkgerrors "github.com/bundledraw/bundledraw-backend/pkg/errors"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
)

// GetPriceQuote returns the current fixed price for one pack and bundle size.
// Prices move with the remaining pool, so nothing here is cacheable.
func GetPriceQuote(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		eventID, pack, err := eventPackParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sizeRaw := r.URL.Query().Get("bundle_size")
		size, convErr := strconv.Atoi(sizeRaw)
		if convErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "bundle_size query parameter must be an integer"))
			return
		}

		quote, err := svc.GetPriceQuote(r.Context(), eventID, pack, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// GetBundleSizes lists the bundle sizes the pack can currently fulfill.
func GetBundleSizes(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		eventID, pack, err := eventPackParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		availability, err := svc.GetAvailableBundleSizes(r.Context(), eventID, pack)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, availability)
	}
}

func eventPackParams(r *http.Request) (uuid.UUID, enums.Pack, error) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event id")
	}
	pack, err := enums.ParsePack(chi.URLParam(r, "pack"))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pack")
	}
	return eventID, pack, nil
}
