package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/deposit"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDepositRepository implements deposit.Repository using GORM
type GormDepositRepository struct {
	db *gorm.DB
}

// NewGormDepositRepository creates a new GormDepositRepository
func NewGormDepositRepository(db *gorm.DB) *GormDepositRepository {
	return &GormDepositRepository{db: db}
}

// FindByID finds a deposit by its ID
func (r *GormDepositRepository) FindByID(ctx context.Context, id uuid.UUID) (*deposit.Deposit, error) {
	var model models.DepositModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Deposit not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists deposits matching the filter, most recent payment first
func (r *GormDepositRepository) FindAll(ctx context.Context, filter deposit.Filter) ([]deposit.Deposit, error) {
	query := r.db.WithContext(ctx).Model(&models.DepositModel{})
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.OwnerID != nil {
		query = query.Where("property_id IN (?)",
			r.db.Model(&models.PropertyModel{}).Select("id").Where("owner_id = ?", *filter.OwnerID))
	}
	if filter.DepositType != "" {
		query = query.Where("deposit_type = ?", filter.DepositType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var depositModels []models.DepositModel
	if err := query.Order("paid_date DESC, created_at DESC").Find(&depositModels).Error; err != nil {
		return nil, err
	}
	deposits := make([]deposit.Deposit, len(depositModels))
	for i, model := range depositModels {
		deposits[i] = *model.ToDomain()
	}
	return deposits, nil
}

// FindDeductions returns a deposit's deduction log, oldest first
func (r *GormDepositRepository) FindDeductions(ctx context.Context, depositID uuid.UUID) ([]deposit.Deduction, error) {
	var deductionModels []models.DepositDeductionModel
	if err := r.db.WithContext(ctx).
		Where("deposit_id = ?", depositID).
		Order("deduction_date ASC, created_at ASC").
		Find(&deductionModels).Error; err != nil {
		return nil, err
	}
	deductions := make([]deposit.Deduction, len(deductionModels))
	for i, model := range deductionModels {
		deductions[i] = *model.ToDomain()
	}
	return deductions, nil
}

// Create inserts a new deposit
func (r *GormDepositRepository) Create(ctx context.Context, d *deposit.Deposit) error {
	return r.db.WithContext(ctx).Create(models.DepositModelFromDomain(d)).Error
}

// Save updates a deposit under an optimistic version check. The domain has
// already incremented the version, so the stored row must hold version-1.
func (r *GormDepositRepository) Save(ctx context.Context, d *deposit.Deposit) error {
	return saveDeposit(r.db.WithContext(ctx), d)
}

// ApplyDeduction inserts the deduction, saves the deposit and settles the
// linked fee record in one transaction
func (r *GormDepositRepository) ApplyDeduction(ctx context.Context, d *deposit.Deposit, deduction *deposit.Deduction, settle func(record *fee.FeeRecord) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.DepositDeductionModelFromDomain(deduction)).Error; err != nil {
			return fmt.Errorf("failed to insert deduction: %w", err)
		}
		if err := saveDeposit(tx, d); err != nil {
			return err
		}
		if deduction.FeeRecordID == nil || settle == nil {
			return nil
		}

		record, err := findFeeRecord(tx, *deduction.FeeRecordID)
		if err != nil {
			return err
		}
		if err := settle(record); err != nil {
			return err
		}
		return saveFeeRecord(tx, record)
	})
}

func saveDeposit(db *gorm.DB, d *deposit.Deposit) error {
	result := db.Model(&models.DepositModel{}).
		Where("id = ? AND version = ?", d.ID, d.Version-1).
		Updates(map[string]any{
			"balance":     d.Balance,
			"status":      d.Status,
			"refund_date": d.RefundDate,
			"remark":      d.Remark,
			"version":     d.Version,
			"updated_at":  d.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormDepositRepository implements deposit.Repository
var _ deposit.Repository = (*GormDepositRepository)(nil)
