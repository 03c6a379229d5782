package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wayfarer-backend/pkg/db/models"
)

// Reader is the read side of the catalog tables.
type Reader interface {
	FindPackage(ctx context.Context, id uuid.UUID) (*models.Package, error)
	FindDestination(ctx context.Context, id uuid.UUID) (*models.Destination, error)
}

// Repository loads packages and destinations with their discount tiers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindPackage(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).
		Preload("GroupDiscounts", declaredOrder).
		First(&pkg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *Repository) FindDestination(ctx context.Context, id uuid.UUID) (*models.Destination, error) {
	var dest models.Destination
	if err := r.db.WithContext(ctx).
		Preload("GroupDiscounts", declaredOrder).
		First(&dest, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dest, nil
}

func declaredOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}
