package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
)

// GroupDiscount is a percentage off granted once the party reaches MinPeople.
type GroupDiscount struct {
	MinPeople       int             `json:"minPeople"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// CatalogEntry carries the price and constraints of a package or destination.
// GroupDiscounts keep their declared order.
type CatalogEntry struct {
	Kind           enums.BookingType `json:"kind"`
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	BasePrice      decimal.Decimal   `json:"basePrice"`
	Currency       string            `json:"currency"`
	GroupDiscounts []GroupDiscount   `json:"groupDiscounts"`
	DurationDays   *int              `json:"durationDays,omitempty"`
	ExcludedMonths []time.Month      `json:"excludedMonths,omitempty"`
	MaxGroupSize   *int              `json:"maxGroupSize,omitempty"`
	IsActive       bool              `json:"isActive"`
}

// Excludes reports whether trips may not start in month m.
func (e *CatalogEntry) Excludes(m time.Month) bool {
	if e == nil {
		return false
	}
	for _, excluded := range e.ExcludedMonths {
		if excluded == m {
			return true
		}
	}
	return false
}
