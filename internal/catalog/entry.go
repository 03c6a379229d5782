package catalog

import (
	"time"

	"github.com/lib/pq"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/pkg/db/models"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
)

func entryFromPackage(m *models.Package) *booking.CatalogEntry {
	return &booking.CatalogEntry{
		Kind:           enums.BookingTypePackage,
		ID:             m.ID,
		Name:           m.Name,
		BasePrice:      m.BasePrice,
		Currency:       m.Currency,
		GroupDiscounts: groupDiscounts(m.GroupDiscounts),
		DurationDays:   m.DurationDays,
		ExcludedMonths: months(m.ExcludedMonths),
		MaxGroupSize:   m.MaxGroupSize,
		IsActive:       m.IsActive,
	}
}

func entryFromDestination(m *models.Destination) *booking.CatalogEntry {
	return &booking.CatalogEntry{
		Kind:           enums.BookingTypeDestination,
		ID:             m.ID,
		Name:           m.Name,
		BasePrice:      m.BasePrice,
		Currency:       m.Currency,
		GroupDiscounts: groupDiscounts(m.GroupDiscounts),
		ExcludedMonths: months(m.ExcludedMonths),
		MaxGroupSize:   m.MaxGroupSize,
		IsActive:       m.IsActive,
	}
}

func groupDiscounts(rows []models.PackageGroupDiscount) []booking.GroupDiscount {
	out := make([]booking.GroupDiscount, 0, len(rows))
	for _, row := range rows {
		out = append(out, booking.GroupDiscount{
			MinPeople:       row.MinPeople,
			DiscountPercent: row.DiscountPercent,
		})
	}
	return out
}

// months drops values outside 1..12.
func months(values pq.Int64Array) []time.Month {
	out := make([]time.Month, 0, len(values))
	for _, v := range values {
		if v >= 1 && v <= 12 {
			out = append(out, time.Month(v))
		}
	}
	return out
}
