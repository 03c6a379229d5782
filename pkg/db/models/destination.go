package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Destination is a bookable place priced per person without a fixed itinerary.
type Destination struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug           string                 `gorm:"column:slug;not null"`
	Name           string                 `gorm:"column:name;not null"`
	Country        string                 `gorm:"column:country;not null"`
	BasePrice      decimal.Decimal        `gorm:"column:base_price;type:numeric(12,2);not null"`
	Currency       string                 `gorm:"column:currency;not null;default:USD"`
	MaxGroupSize   *int                   `gorm:"column:max_group_size"`
	ExcludedMonths pq.Int64Array          `gorm:"column:excluded_months;type:smallint[];not null;default:'{}'"`
	IsActive       bool                   `gorm:"column:is_active;not null;default:true"`
	GroupDiscounts []PackageGroupDiscount `gorm:"foreignKey:DestinationID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
