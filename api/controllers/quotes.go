package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/api/responses"
	"github.com/angelmondragon/wayfarer-backend/api/validators"
	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/internal/normalize"
	"github.com/angelmondragon/wayfarer-backend/internal/quote"
	"github.com/angelmondragon/wayfarer-backend/internal/validation"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
)

// QuotePreviewer prices raw form input without keeping any state.
type QuotePreviewer interface {
	Preview(ctx context.Context, kind enums.BookingType, ref uuid.UUID, raw normalize.RawPatch) (quote.Quote, error)
}

type quoteRequest struct {
	bookingTarget
	normalize.RawPatch
}

type quoteResponse struct {
	Draft      booking.Draft           `json:"draft"`
	Pricing    *booking.PriceBreakdown `json:"pricing"`
	Quotable   bool                    `json:"quotable"`
	Validation validation.Result       `json:"validation"`
}

// QuoteCreate normalizes the posted form, prices it and reports every
// field error. Invalid drafts are still answered with 200; the validation
// block says what is wrong.
func QuoteCreate(svc QuotePreviewer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, ref, err := payload.resolve()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q, err := svc.Preview(r.Context(), kind, ref, payload.RawPatch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pricing := q.Draft.Common().Pricing
		responses.WriteSuccess(w, quoteResponse{
			Draft:      q.Draft,
			Pricing:    pricing,
			Quotable:   pricing != nil,
			Validation: q.Validation,
		})
	}
}
