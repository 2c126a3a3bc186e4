package persistence

import (
	"context"
	"errors"

	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeRateRepository implements fee.RateRepository using GORM
type GormFeeRateRepository struct {
	db *gorm.DB
}

// NewGormFeeRateRepository creates a new GormFeeRateRepository
func NewGormFeeRateRepository(db *gorm.DB) *GormFeeRateRepository {
	return &GormFeeRateRepository{db: db}
}

// FindEffective returns the latest active rate whose effective date is on
// or before the cutoff
func (r *GormFeeRateRepository) FindEffective(ctx context.Context, q fee.RateQuery) (*fee.FeeRate, error) {
	var model models.FeeRateModel
	if err := r.db.WithContext(ctx).
		Where("community_id = ? AND fee_item_id = ? AND asset_kind = ? AND asset_type = ?",
			q.CommunityID, q.FeeItemID, q.AssetKind, q.AssetType).
		Where("is_active = ? AND effective_date <= ?", true, fee.DateOf(q.Cutoff)).
		Order("effective_date DESC, created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists rates matching the filter, newest effective date first
func (r *GormFeeRateRepository) FindAll(ctx context.Context, filter fee.RateFilter) ([]fee.FeeRate, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeRateModel{})
	if filter.CommunityID != nil {
		query = query.Where("community_id = ?", *filter.CommunityID)
	}
	if filter.FeeItemID != nil {
		query = query.Where("fee_item_id = ?", *filter.FeeItemID)
	}
	if filter.AssetKind != "" {
		query = query.Where("asset_kind = ?", filter.AssetKind)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var rateModels []models.FeeRateModel
	if err := query.Order("effective_date DESC, asset_type ASC").Find(&rateModels).Error; err != nil {
		return nil, err
	}
	rates := make([]fee.FeeRate, len(rateModels))
	for i, model := range rateModels {
		rates[i] = *model.ToDomain()
	}
	return rates, nil
}

// Save creates or updates a rate. A second active rate for the same
// version key returns fee.ErrDuplicateRate.
func (r *GormFeeRateRepository) Save(ctx context.Context, rate *fee.FeeRate) error {
	model := models.FeeRateModelFromDomain(rate)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return fee.ErrDuplicateRate
		}
		return err
	}
	return nil
}

// Ensure GormFeeRateRepository implements fee.RateRepository
var _ fee.RateRepository = (*GormFeeRateRepository)(nil)
