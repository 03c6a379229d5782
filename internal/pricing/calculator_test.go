package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/pkg/config"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/types"
)

var start = types.Date{Year: 2026, Month: time.July, Day: 1}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func happyPath(t *testing.T) (booking.Draft, *booking.CatalogEntry) {
	t.Helper()
	id := uuid.New()
	d, err := booking.New(enums.BookingTypePackage, id)
	if err != nil {
		t.Fatalf("new draft: %v", err)
	}
	b := d.Common()
	b.Travelers = booking.Travelers{Adults: 2, Children: 1}
	b.TravelDates = booking.TravelDates{StartDate: start, EndDate: start.AddDays(5)}
	b.Accommodation = booking.Accommodation{Type: enums.AccommodationTypeMidRange, RoomType: enums.RoomTypeDouble, Rooms: 2}
	entry := &booking.CatalogEntry{
		Kind:      enums.BookingTypePackage,
		ID:        id,
		BasePrice: decimal.NewFromInt(100),
		IsActive:  true,
	}
	return d, entry
}

func assertMoney(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: got %s want %s", label, got.StringFixed(2), want)
	}
}

func assertInvariant(t *testing.T, p *booking.PriceBreakdown) {
	t.Helper()
	sum := p.BasePrice.Add(p.RoomPrice).Add(p.Taxes).Add(p.Fees).Sub(p.Discounts).Round(2)
	if !p.TotalAmount.Equal(sum) {
		t.Fatalf("total %s != parts %s", p.TotalAmount, sum)
	}
	for _, part := range []decimal.Decimal{p.BasePrice, p.RoomPrice, p.Taxes, p.Fees, p.Discounts, p.TotalAmount} {
		if !part.Equal(part.Round(2)) {
			t.Fatalf("component %s is not rounded to cents", part)
		}
	}
}

func TestHappyPathPackageQuote(t *testing.T) {
	d, entry := happyPath(t)
	p := NewCalculator(DefaultConfig()).Compute(d, entry)
	if p == nil {
		t.Fatal("expected a quote")
	}
	assertMoney(t, "basePrice", p.BasePrice, "270")
	assertMoney(t, "roomPrice", p.RoomPrice, "100")
	assertMoney(t, "discounts", p.Discounts, "0")
	assertMoney(t, "taxes", p.Taxes, "37")
	assertMoney(t, "fees", p.Fees, "25")
	assertMoney(t, "total", p.TotalAmount, "432.00")
	if p.Currency != "USD" {
		t.Fatalf("expected default currency, got %s", p.Currency)
	}
	assertInvariant(t, p)
}

func TestComputeIsIdempotent(t *testing.T) {
	d, entry := happyPath(t)
	entry.GroupDiscounts = []booking.GroupDiscount{{MinPeople: 3, DiscountPercent: dec("7.5")}}
	calc := NewCalculator(DefaultConfig())
	first := calc.Compute(d, entry)
	second := calc.Compute(d, entry)
	if !first.Equal(second) {
		t.Fatalf("expected identical quotes, got %+v and %+v", first, second)
	}
	if first.TotalAmount.String() != second.TotalAmount.String() {
		t.Fatal("rounded totals must match exactly")
	}
}

func TestGroupDiscountApplied(t *testing.T) {
	d, entry := happyPath(t)
	entry.GroupDiscounts = []booking.GroupDiscount{{MinPeople: 3, DiscountPercent: dec("10")}}
	p := NewCalculator(DefaultConfig()).Compute(d, entry)

	assertMoney(t, "discounts", p.Discounts, "37")
	assertMoney(t, "taxes", p.Taxes, "33.3")
	assertMoney(t, "total", p.TotalAmount, "391.30")
	assertInvariant(t, p)
}

func TestInfantsTravelFreeAndSkipGroupCount(t *testing.T) {
	d, entry := happyPath(t)
	entry.GroupDiscounts = []booking.GroupDiscount{{MinPeople: 4, DiscountPercent: dec("10")}}
	d.Common().Travelers.Infants = 2

	p := NewCalculator(DefaultConfig()).Compute(d, entry)
	assertMoney(t, "basePrice", p.BasePrice, "270")
	assertMoney(t, "discounts", p.Discounts, "0")
}

func TestSelectGroupDiscount(t *testing.T) {
	tiers := []booking.GroupDiscount{
		{MinPeople: 10, DiscountPercent: dec("15")},
		{MinPeople: 4, DiscountPercent: dec("5")},
		{MinPeople: 4, DiscountPercent: dec("8")},
		{MinPeople: 6, DiscountPercent: dec("10")},
	}
	if SelectGroupDiscount(3, tiers) != nil {
		t.Fatal("no tier below 4 people")
	}
	got := SelectGroupDiscount(12, tiers)
	if got == nil || got.MinPeople != 4 || !got.DiscountPercent.Equal(dec("5")) {
		t.Fatalf("expected the first-declared lowest tier, got %+v", got)
	}
	if SelectGroupDiscount(5, nil) != nil {
		t.Fatal("no tiers means no discount")
	}
}

func TestRoundingKeepsInvariant(t *testing.T) {
	d, entry := happyPath(t)
	entry.BasePrice = dec("99.99")
	entry.GroupDiscounts = []booking.GroupDiscount{{MinPeople: 2, DiscountPercent: dec("12.5")}}
	d.Common().Travelers.Children = 3
	d.Common().Accommodation.Rooms = 3

	p := NewCalculator(DefaultConfig()).Compute(d, entry)
	assertInvariant(t, p)
}

func TestCustomFlow(t *testing.T) {
	d, err := booking.New(enums.BookingTypeCustom, uuid.Nil)
	if err != nil {
		t.Fatalf("new draft: %v", err)
	}
	custom := d.(*booking.CustomDraft)
	custom.Travelers = booking.Travelers{Adults: 2, Children: 2}
	custom.TravelDates = booking.TravelDates{StartDate: start, EndDate: start.AddDays(4)}
	custom.Accommodation = booking.Accommodation{Type: enums.AccommodationTypeLuxury, RoomType: enums.RoomTypeFamily, Rooms: 1}
	custom.BudgetRange = enums.BudgetRangeModerate

	p := NewCalculator(DefaultConfig()).Compute(custom, nil)
	if p == nil {
		t.Fatal("expected a custom quote")
	}
	// 150/day * 4 days * 2 adults; children, supplement and group discount do not apply
	assertMoney(t, "basePrice", p.BasePrice, "1200")
	assertMoney(t, "roomPrice", p.RoomPrice, "0")
	assertMoney(t, "taxes", p.Taxes, "120")
	assertMoney(t, "total", p.TotalAmount, "1345")
	assertInvariant(t, p)

	custom.BudgetRange = ""
	if NewCalculator(DefaultConfig()).Compute(custom, nil) != nil {
		t.Fatal("custom drafts without a budget range are not quotable")
	}
}

func TestDestinationPricedLikePackage(t *testing.T) {
	id := uuid.New()
	d, _ := booking.New(enums.BookingTypeDestination, id)
	b := d.Common()
	b.Travelers = booking.Travelers{Adults: 2, Children: 1}
	b.TravelDates = booking.TravelDates{StartDate: start, EndDate: start.AddDays(5)}
	b.Accommodation = booking.Accommodation{Type: enums.AccommodationTypeMidRange, RoomType: enums.RoomTypeDouble, Rooms: 2}
	entry := &booking.CatalogEntry{Kind: enums.BookingTypeDestination, ID: id, BasePrice: decimal.NewFromInt(100), Currency: "EUR"}

	p := NewCalculator(DefaultConfig()).Compute(d, entry)
	assertMoney(t, "total", p.TotalAmount, "432")
	if p.Currency != "EUR" {
		t.Fatalf("entry currency should win, got %s", p.Currency)
	}

	pkgEntry := *entry
	pkgEntry.Kind = enums.BookingTypePackage
	if NewCalculator(DefaultConfig()).Compute(d, &pkgEntry) != nil {
		t.Fatal("an entry of the wrong kind is not a quote source")
	}
}

func TestNotQuotable(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	tests := []struct {
		name   string
		mutate func(b *booking.Base)
	}{
		{"missing start", func(b *booking.Base) { b.TravelDates.StartDate = types.Date{} }},
		{"missing end", func(b *booking.Base) { b.TravelDates.EndDate = types.Date{} }},
		{"no adults", func(b *booking.Base) { b.Travelers.Adults = 0 }},
		{"reversed dates", func(b *booking.Base) { b.TravelDates.EndDate = start.AddDays(-2) }},
		{"same day", func(b *booking.Base) { b.TravelDates.EndDate = start }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, entry := happyPath(t)
			tt.mutate(d.Common())
			if p := calc.Compute(d, entry); p != nil {
				t.Fatalf("expected nil quote, got %+v", p)
			}
		})
	}

	d, _ := happyPath(t)
	if calc.Compute(d, nil) != nil {
		t.Fatal("package drafts need a catalog entry")
	}
}

func TestConfigFromOverrides(t *testing.T) {
	cfg := ConfigFrom(config.PricingConfig{
		TaxRate:    dec("0.2"),
		ServiceFee: dec("10"),
		ChildRate:  dec("0.5"),
		Currency:   "GBP",
	})
	d, entry := happyPath(t)
	p := NewCalculator(cfg).Compute(d, entry)
	// base 250, room 100, tax 70, fee 10
	assertMoney(t, "total", p.TotalAmount, "430")
	if p.Currency != "GBP" {
		t.Fatalf("expected configured currency, got %s", p.Currency)
	}
}
