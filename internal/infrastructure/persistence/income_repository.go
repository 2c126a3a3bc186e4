package persistence

import (
	"context"

	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/income"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDailyIncomeRepository implements income.Repository using GORM
type GormDailyIncomeRepository struct {
	db *gorm.DB
}

// NewGormDailyIncomeRepository creates a new GormDailyIncomeRepository
func NewGormDailyIncomeRepository(db *gorm.DB) *GormDailyIncomeRepository {
	return &GormDailyIncomeRepository{db: db}
}

// Create inserts an income record
func (r *GormDailyIncomeRepository) Create(ctx context.Context, rec *income.Record) error {
	return r.db.WithContext(ctx).Create(models.DailyIncomeModelFromDomain(rec)).Error
}

// FindAll lists income records matching the filter, newest first
func (r *GormDailyIncomeRepository) FindAll(ctx context.Context, filter income.Filter) ([]income.Record, error) {
	query := r.db.WithContext(ctx).Model(&models.DailyIncomeModel{})
	if filter.CommunityID != nil {
		query = query.Where("community_id = ?", *filter.CommunityID)
	}
	if filter.StartDate != nil {
		query = query.Where("record_date >= ?", fee.DateOf(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("record_date <= ?", fee.DateOf(*filter.EndDate))
	}
	if filter.IncomeType != "" {
		query = query.Where("income_type = ?", filter.IncomeType)
	}

	var incomeModels []models.DailyIncomeModel
	if err := query.Order("record_date DESC, created_at DESC").Find(&incomeModels).Error; err != nil {
		return nil, err
	}
	records := make([]income.Record, len(incomeModels))
	for i, model := range incomeModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Ensure GormDailyIncomeRepository implements income.Repository
var _ income.Repository = (*GormDailyIncomeRepository)(nil)
