package quote

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/internal/normalize"
	"github.com/angelmondragon/wayfarer-backend/internal/pricing"
	"github.com/angelmondragon/wayfarer-backend/internal/validation"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/metrics"
)

// CatalogLookup resolves the entry a draft is priced against.
type CatalogLookup interface {
	Lookup(ctx context.Context, kind enums.BookingType, id uuid.UUID) (*booking.CatalogEntry, error)
}

// Quote is a priced and validated draft.
type Quote struct {
	Draft      booking.Draft
	Entry      *booking.CatalogEntry
	Validation validation.Result
}

// Service runs the pricing pipeline shared by the quote endpoint and wizard
// sessions: catalog lookup, price breakdown, validation.
type Service struct {
	catalog CatalogLookup
	calc    *pricing.Calculator
	engine  *validation.Engine
	metrics *metrics.BookingMetrics
	logg    *logger.Logger
}

func NewService(catalog CatalogLookup, calc *pricing.Calculator, engine *validation.Engine, m *metrics.BookingMetrics, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{catalog: catalog, calc: calc, engine: engine, metrics: m, logg: logg}
}

func (s *Service) Engine() *validation.Engine {
	return s.engine
}

// Entry loads the draft's catalog entry. A missing entry is not an error:
// validation reports it on the draft and pricing stays nil.
func (s *Service) Entry(ctx context.Context, d booking.Draft) (*booking.CatalogEntry, error) {
	kind, id, ok := d.CatalogRef()
	if !ok || s.catalog == nil {
		return nil, nil
	}
	entry, err := s.catalog.Lookup(ctx, kind, id)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Reprice writes the current breakdown onto d and keeps the payment amount
// equal to its total. Both are cleared when d is not quotable.
func (s *Service) Reprice(d booking.Draft, entry *booking.CatalogEntry) {
	b := d.Common()
	b.Pricing = s.calc.Compute(d, entry)
	if b.Pricing == nil {
		b.Payment.Amount = decimal.Zero
		return
	}
	b.Payment.Amount = b.Pricing.TotalAmount
}

// Evaluate prices and fully validates d in place.
func (s *Service) Evaluate(ctx context.Context, d booking.Draft) (Quote, error) {
	entry, err := s.Entry(ctx, d)
	if err != nil {
		return Quote{}, err
	}
	s.Reprice(d, entry)
	result := s.engine.Validate(d, entry)

	s.metrics.ObserveQuote(d.Type().String(), d.Common().Pricing != nil)
	s.metrics.IncValidationFailures(result.Fields())
	return Quote{Draft: d, Entry: entry, Validation: result}, nil
}

// Preview builds a throwaway draft from raw form values and evaluates it.
func (s *Service) Preview(ctx context.Context, kind enums.BookingType, ref uuid.UUID, raw normalize.RawPatch) (Quote, error) {
	d, err := booking.New(kind, ref)
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported booking type")
	}
	booking.Apply(d, normalize.Patch(raw))

	q, err := s.Evaluate(ctx, d)
	if err != nil {
		return Quote{}, err
	}
	ctx = s.logg.WithBookingType(ctx, kind.String())
	s.logg.Debug(s.logg.WithField(ctx, "quotable", q.Draft.Common().Pricing != nil), "quote previewed")
	return q, nil
}
