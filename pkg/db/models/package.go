package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Package is a fixed-itinerary tour sold at a per-person price.
type Package struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DestinationID  *uuid.UUID             `gorm:"column:destination_id;type:uuid"`
	Slug           string                 `gorm:"column:slug;not null"`
	Name           string                 `gorm:"column:name;not null"`
	BasePrice      decimal.Decimal        `gorm:"column:base_price;type:numeric(12,2);not null"`
	Currency       string                 `gorm:"column:currency;not null;default:USD"`
	DurationDays   *int                   `gorm:"column:duration_days"`
	MaxGroupSize   *int                   `gorm:"column:max_group_size"`
	ExcludedMonths pq.Int64Array          `gorm:"column:excluded_months;type:smallint[];not null;default:'{}'"`
	IsActive       bool                   `gorm:"column:is_active;not null;default:true"`
	GroupDiscounts []PackageGroupDiscount `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
