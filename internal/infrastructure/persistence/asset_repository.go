package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements asset.Repository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindOwner finds an owner by ID
func (r *GormAssetRepository) FindOwner(ctx context.Context, id uuid.UUID) (*asset.Owner, error) {
	var model models.OwnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Owner not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindProperty finds a property by ID with its community name
func (r *GormAssetRepository) FindProperty(ctx context.Context, id uuid.UUID) (*asset.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).
		Preload("Community").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Property not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDeliveredPropertiesByOwner returns the owner's properties that have a handover date
func (r *GormAssetRepository) FindDeliveredPropertiesByOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.Property, error) {
	var propertyModels []models.PropertyModel
	if err := r.delivered(ctx).
		Where("owner_id = ?", ownerID).
		Find(&propertyModels).Error; err != nil {
		return nil, err
	}
	return toProperties(propertyModels), nil
}

// FindParkingSpacesByOwner returns the owner's active parking spaces
func (r *GormAssetRepository) FindParkingSpacesByOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.ParkingSpace, error) {
	var spaceModels []models.ParkingSpaceModel
	if err := r.db.WithContext(ctx).
		Preload("Community").
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("space_number ASC").
		Find(&spaceModels).Error; err != nil {
		return nil, err
	}
	return toParkingSpaces(spaceModels), nil
}

// FindDeliveredProperties lists delivered properties, optionally for one community
func (r *GormAssetRepository) FindDeliveredProperties(ctx context.Context, communityID *uuid.UUID) ([]asset.Property, error) {
	query := r.delivered(ctx)
	if communityID != nil {
		query = query.Where("community_id = ?", *communityID)
	}

	var propertyModels []models.PropertyModel
	if err := query.Find(&propertyModels).Error; err != nil {
		return nil, err
	}
	return toProperties(propertyModels), nil
}

// FindOwnedParkingSpaces lists active parking spaces with an owner, optionally for one community
func (r *GormAssetRepository) FindOwnedParkingSpaces(ctx context.Context, communityID *uuid.UUID) ([]asset.ParkingSpace, error) {
	query := r.db.WithContext(ctx).
		Preload("Community").
		Where("owner_id IS NOT NULL AND is_active = ?", true)
	if communityID != nil {
		query = query.Where("community_id = ?", *communityID)
	}

	var spaceModels []models.ParkingSpaceModel
	if err := query.Order("community_id ASC, space_number ASC").Find(&spaceModels).Error; err != nil {
		return nil, err
	}
	return toParkingSpaces(spaceModels), nil
}

func (r *GormAssetRepository) delivered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Community").
		Where("handover_date IS NOT NULL").
		Order("community_id ASC, building ASC, unit ASC, room ASC")
}

func toProperties(propertyModels []models.PropertyModel) []asset.Property {
	properties := make([]asset.Property, len(propertyModels))
	for i, model := range propertyModels {
		properties[i] = *model.ToDomain()
	}
	return properties
}

func toParkingSpaces(spaceModels []models.ParkingSpaceModel) []asset.ParkingSpace {
	spaces := make([]asset.ParkingSpace, len(spaceModels))
	for i, model := range spaceModels {
		spaces[i] = *model.ToDomain()
	}
	return spaces
}

// Ensure GormAssetRepository implements asset.Repository
var _ asset.Repository = (*GormAssetRepository)(nil)
