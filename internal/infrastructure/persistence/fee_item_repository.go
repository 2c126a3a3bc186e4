package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeItemRepository implements fee.ItemRepository using GORM
type GormFeeItemRepository struct {
	db *gorm.DB
}

// NewGormFeeItemRepository creates a new GormFeeItemRepository
func NewGormFeeItemRepository(db *gorm.DB) *GormFeeItemRepository {
	return &GormFeeItemRepository{db: db}
}

// FindByCode finds a fee item by its code
func (r *GormFeeItemRepository) FindByCode(ctx context.Context, code fee.ItemCode) (*fee.FeeItem, error) {
	var model models.FeeItemModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage(fmt.Sprintf("Fee item %s not found", code))
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists the fee item catalogue ordered by code
func (r *GormFeeItemRepository) FindAll(ctx context.Context) ([]fee.FeeItem, error) {
	var itemModels []models.FeeItemModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]fee.FeeItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Ensure GormFeeItemRepository implements fee.ItemRepository
var _ fee.ItemRepository = (*GormFeeItemRepository)(nil)
