package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackageGroupDiscount is one group-size tier. Exactly one of PackageID and
// DestinationID is set; Position preserves the order the tiers were declared in.
type PackageGroupDiscount struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PackageID       *uuid.UUID      `gorm:"column:package_id;type:uuid"`
	DestinationID   *uuid.UUID      `gorm:"column:destination_id;type:uuid"`
	MinPeople       int             `gorm:"column:min_people;not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	Position        int             `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
