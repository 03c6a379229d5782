package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/pkg/config"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
)

// BudgetBand is the per-day spend range of a custom-trip budget tier.
type BudgetBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Midpoint is the per-day estimate used for quoting.
func (b BudgetBand) Midpoint() decimal.Decimal {
	return b.Min.Add(b.Max).Div(decimal.NewFromInt(2))
}

// Config holds every constant the calculator uses.
type Config struct {
	ChildRate  decimal.Decimal
	TaxRate    decimal.Decimal
	ServiceFee decimal.Decimal
	Currency   string
	// RoomRates is a flat supplement per room, not per night.
	RoomRates   map[enums.AccommodationType]decimal.Decimal
	BudgetBands map[enums.BudgetRange]BudgetBand
}

func DefaultConfig() Config {
	return Config{
		ChildRate:  decimal.RequireFromString("0.7"),
		TaxRate:    decimal.RequireFromString("0.10"),
		ServiceFee: decimal.NewFromInt(25),
		Currency:   "USD",
		RoomRates: map[enums.AccommodationType]decimal.Decimal{
			enums.AccommodationTypeBudget:   decimal.Zero,
			enums.AccommodationTypeMidRange: decimal.NewFromInt(50),
			enums.AccommodationTypeLuxury:   decimal.NewFromInt(150),
			enums.AccommodationTypePremium:  decimal.NewFromInt(300),
		},
		BudgetBands: map[enums.BudgetRange]BudgetBand{
			enums.BudgetRangeBudget:   {Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(100)},
			enums.BudgetRangeModerate: {Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(200)},
			enums.BudgetRangeLuxury:   {Min: decimal.NewFromInt(200), Max: decimal.NewFromInt(400)},
			enums.BudgetRangePremium:  {Min: decimal.NewFromInt(400), Max: decimal.NewFromInt(800)},
		},
	}
}

// ConfigFrom applies the environment overrides on top of DefaultConfig.
func ConfigFrom(p config.PricingConfig) Config {
	cfg := DefaultConfig()
	cfg.ChildRate = p.ChildRate
	cfg.TaxRate = p.TaxRate
	cfg.ServiceFee = p.ServiceFee
	if p.Currency != "" {
		cfg.Currency = p.Currency
	}
	return cfg
}
