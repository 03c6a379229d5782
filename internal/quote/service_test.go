package quote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/internal/normalize"
	"github.com/angelmondragon/wayfarer-backend/internal/pricing"
	"github.com/angelmondragon/wayfarer-backend/internal/validation"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/metrics"
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type stubCatalog struct {
	entries map[uuid.UUID]*booking.CatalogEntry
	err     error
}

func (s *stubCatalog) Lookup(_ context.Context, _ enums.BookingType, id uuid.UUID) (*booking.CatalogEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if entry, ok := s.entries[id]; ok {
		return entry, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
}

func newTestService(t *testing.T, catalog CatalogLookup, m *metrics.BookingMetrics) *Service {
	t.Helper()
	engine := validation.NewEngine(validation.WithClock(func() time.Time { return fixedNow }))
	return NewService(catalog, pricing.NewCalculator(pricing.DefaultConfig()), engine, m, nil)
}

func packageEntry(id uuid.UUID) *booking.CatalogEntry {
	return &booking.CatalogEntry{
		Kind:      enums.BookingTypePackage,
		ID:        id,
		Name:      "Azores Explorer",
		BasePrice: decimal.NewFromInt(100),
		Currency:  "USD",
		IsActive:  true,
	}
}

func rawHappyPath(t *testing.T) normalize.RawPatch {
	t.Helper()
	var raw normalize.RawPatch
	body := `{
		"travelers": {"adults": "2", "children": 1},
		"travelDates": {"startDate": "2026-04-10", "endDate": "2026-04-15"},
		"accommodation": {"type": "midRange", "roomType": "double", "rooms": "2"}
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestPreviewPricesAndValidates(t *testing.T) {
	id := uuid.New()
	reg := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics(reg)
	svc := newTestService(t, &stubCatalog{entries: map[uuid.UUID]*booking.CatalogEntry{id: packageEntry(id)}}, m)

	q, err := svc.Preview(context.Background(), enums.BookingTypePackage, id, rawHappyPath(t))
	require.NoError(t, err)

	quoted := q.Draft.Common().Pricing
	require.NotNil(t, quoted)
	assert.Equal(t, "432.00", quoted.TotalAmount.StringFixed(2))
	assert.True(t, q.Draft.Common().Payment.Amount.Equal(quoted.TotalAmount), "payment amount follows the quote")
	assert.NotNil(t, q.Entry)

	assert.False(t, q.Validation.IsValid)
	assert.Contains(t, q.Validation.Errors, validation.FieldContactName)
	assert.Contains(t, q.Validation.Errors, validation.FieldPaymentMethod)
	assert.NotContains(t, q.Validation.Errors, validation.FieldRooms)
	assert.NotContains(t, q.Validation.Errors, validation.FieldPaymentAmount)

	assert.Equal(t, float64(1), counterValue(t, reg, "booking_quotes_total", "outcome", metrics.OutcomeQuoted))
}

func TestPreviewMissingEntryIsReportedNotReturned(t *testing.T) {
	svc := newTestService(t, &stubCatalog{}, nil)

	q, err := svc.Preview(context.Background(), enums.BookingTypePackage, uuid.New(), rawHappyPath(t))
	require.NoError(t, err)
	assert.Nil(t, q.Draft.Common().Pricing)
	assert.True(t, q.Draft.Common().Payment.Amount.IsZero())
	assert.Equal(t, "package not found", q.Validation.Errors[validation.FieldPackage])
}

func TestPreviewSurfacesCatalogOutage(t *testing.T) {
	outage := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "load package")
	svc := newTestService(t, &stubCatalog{err: outage}, nil)

	_, err := svc.Preview(context.Background(), enums.BookingTypePackage, uuid.New(), rawHappyPath(t))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestPreviewRejectsMissingReference(t *testing.T) {
	svc := newTestService(t, &stubCatalog{}, nil)

	_, err := svc.Preview(context.Background(), enums.BookingTypeDestination, uuid.Nil, normalize.RawPatch{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCustomDraftSkipsCatalog(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("must not be called")}
	svc := newTestService(t, catalog, nil)

	raw := rawHappyPath(t)
	budget := "moderate"
	raw.BudgetRange = &budget

	q, err := svc.Preview(context.Background(), enums.BookingTypeCustom, uuid.Nil, raw)
	require.NoError(t, err)
	require.NotNil(t, q.Draft.Common().Pricing)
	assert.Nil(t, q.Entry)
	assert.NotContains(t, q.Validation.Errors, validation.FieldBudgetRange)
}

func TestRepriceClearsStaleQuote(t *testing.T) {
	id := uuid.New()
	entry := packageEntry(id)
	svc := newTestService(t, &stubCatalog{}, nil)

	d, err := booking.New(enums.BookingTypePackage, id)
	require.NoError(t, err)
	booking.Apply(d, normalize.Patch(rawHappyPath(t)))
	svc.Reprice(d, entry)
	require.NotNil(t, d.Common().Pricing)

	d.Common().TravelDates.EndDate = d.Common().TravelDates.StartDate
	svc.Reprice(d, entry)
	assert.Nil(t, d.Common().Pricing)
	assert.True(t, d.Common().Payment.Amount.IsZero())
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
