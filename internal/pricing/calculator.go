package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Calculator derives price breakdowns. It is pure: the same draft and entry
// always produce the same breakdown.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Compute returns nil while the draft is not yet quotable: dates or adults
// missing, a span under one day, no catalog entry for package and destination
// drafts, or no known budget range for custom drafts.
func (c *Calculator) Compute(d booking.Draft, entry *booking.CatalogEntry) *booking.PriceBreakdown {
	b := d.Common()
	if !b.TravelDates.Complete() || b.Travelers.Adults <= 0 {
		return nil
	}
	days := b.TravelDates.Days()
	if days < 1 {
		return nil
	}

	switch v := d.(type) {
	case *booking.CustomDraft:
		return c.custom(v, days)
	default:
		kind, _, _ := d.CatalogRef()
		if entry == nil || entry.Kind != kind {
			return nil
		}
		return c.catalog(b, entry)
	}
}

func (c *Calculator) catalog(b *booking.Base, entry *booking.CatalogEntry) *booking.PriceBreakdown {
	adults := decimal.NewFromInt(int64(b.Travelers.Adults))
	children := decimal.NewFromInt(int64(b.Travelers.Children))

	adultCost := entry.BasePrice.Mul(adults)
	childCost := entry.BasePrice.Mul(c.cfg.ChildRate).Mul(children)
	base := round(adultCost.Add(childCost))

	room := round(c.cfg.RoomRates[b.Accommodation.Type].Mul(decimal.NewFromInt(int64(b.Accommodation.Rooms))))

	discounts := decimal.Zero
	if tier := SelectGroupDiscount(b.Travelers.Paying(), entry.GroupDiscounts); tier != nil {
		discounts = round(base.Add(room).Mul(tier.DiscountPercent).Div(hundred))
	}

	currency := entry.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	return c.finish(base, room, discounts, currency)
}

func (c *Calculator) custom(d *booking.CustomDraft, days int) *booking.PriceBreakdown {
	band, ok := c.cfg.BudgetBands[d.BudgetRange]
	if !ok {
		return nil
	}
	perDay := band.Midpoint()
	base := round(perDay.Mul(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(int64(d.Travelers.Adults))))
	return c.finish(base, decimal.Zero, decimal.Zero, c.cfg.Currency)
}

// finish adds tax and fees. Every part is rounded before summing so the total
// always equals the sum of the parts shown.
func (c *Calculator) finish(base, room, discounts decimal.Decimal, currency string) *booking.PriceBreakdown {
	subtotal := base.Add(room).Sub(discounts)
	taxes := round(subtotal.Mul(c.cfg.TaxRate))
	fees := round(c.cfg.ServiceFee)
	return &booking.PriceBreakdown{
		BasePrice:   base,
		RoomPrice:   room,
		Taxes:       taxes,
		Fees:        fees,
		Discounts:   discounts,
		TotalAmount: subtotal.Add(taxes).Add(fees),
		Currency:    currency,
	}
}

// SelectGroupDiscount picks the tier with the lowest MinPeople that the party
// reaches; on equal thresholds the first declared tier wins.
func SelectGroupDiscount(people int, tiers []booking.GroupDiscount) *booking.GroupDiscount {
	var selected *booking.GroupDiscount
	for i := range tiers {
		tier := &tiers[i]
		if tier.MinPeople > people {
			continue
		}
		if selected == nil || tier.MinPeople < selected.MinPeople {
			selected = tier
		}
	}
	return selected
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}
