package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFeeRecordRepository implements fee.RecordRepository using GORM
type GormFeeRecordRepository struct {
	db *gorm.DB
}

// NewGormFeeRecordRepository creates a new GormFeeRecordRepository
func NewGormFeeRecordRepository(db *gorm.DB) *GormFeeRecordRepository {
	return &GormFeeRecordRepository{db: db}
}

// FindByID finds a fee record by its ID
func (r *GormFeeRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.FeeRecord, error) {
	return findFeeRecord(r.db.WithContext(ctx), id)
}

// FindAll lists fee records matching the filter with pagination. Without an
// explicit sort the newest due date comes first.
func (r *GormFeeRecordRepository) FindAll(ctx context.Context, filter fee.RecordFilter) ([]fee.FeeRecord, int64, error) {
	var total int64
	if err := applyRecordFilter(r.db.WithContext(ctx).Model(&models.FeeRecordModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyRecordFilter(r.db.WithContext(ctx).Model(&models.FeeRecordModel{}), filter)

	if page := filter.Pagination(); page.PageSize > 0 {
		query = query.Offset(page.Offset()).Limit(page.PageSize)
	}

	var recordModels []models.FeeRecordModel
	sortBy := ValidateSortField(filter.SortBy, FeeRecordSortFields, "due_date")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	if err := query.Order(sortBy + " " + sortOrder + ", created_at DESC").Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}
	records := make([]fee.FeeRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, total, nil
}

// Statistics aggregates counts and amounts over the filtered records
func (r *GormFeeRecordRepository) Statistics(ctx context.Context, filter fee.RecordFilter) (*fee.RecordStatistics, error) {
	var result struct {
		TotalCount   int64
		PaidCount    int64
		UnpaidCount  int64
		TotalAmount  decimal.Decimal
		PaidAmount   decimal.Decimal
		UnpaidAmount decimal.Decimal
	}

	paid, unpaid := fee.StatusPaid, fee.StatusUnpaid
	err := applyRecordFilter(r.db.WithContext(ctx).Model(&models.FeeRecordModel{}), filter).
		Select(`COUNT(*) AS total_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS paid_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS unpaid_count,
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN status = ? THEN paid_amount ELSE 0 END), 0) AS paid_amount,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS unpaid_amount`,
			paid, unpaid, paid, unpaid).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &fee.RecordStatistics{
		TotalCount:   result.TotalCount,
		PaidCount:    result.PaidCount,
		UnpaidCount:  result.UnpaidCount,
		TotalAmount:  result.TotalAmount,
		PaidAmount:   result.PaidAmount,
		UnpaidAmount: result.UnpaidAmount,
	}, nil
}

// SumPaid totals paid_amount over paid records of one asset and fee item
func (r *GormFeeRecordRepository) SumPaid(ctx context.Context, kind asset.Kind, assetID, feeItemID uuid.UUID) (decimal.Decimal, error) {
	column, err := assetColumn(kind)
	if err != nil {
		return decimal.Zero, err
	}

	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.FeeRecordModel{}).
		Where(column+" = ? AND fee_item_id = ? AND status = ?", assetID, feeItemID, fee.StatusPaid).
		Select("COALESCE(SUM(paid_amount), 0) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumUnpaidByOwner totals the amounts of the owner's unpaid records
func (r *GormFeeRecordRepository) SumUnpaidByOwner(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.FeeRecordModel{}).
		Where("owner_id = ? AND status = ?", ownerID, fee.StatusUnpaid).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ExistsForPeriod reports whether the asset already has a record for the
// fee item with exactly these period bounds. Amounts are not compared.
func (r *GormFeeRecordRepository) ExistsForPeriod(ctx context.Context, key fee.PeriodKey) (bool, error) {
	column, err := assetColumn(key.AssetKind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FeeRecordModel{}).
		Where(column+" = ? AND fee_item_id = ?", key.AssetID, key.FeeItemID).
		Where("period_start = ? AND period_end = ?", fee.DateOf(key.PeriodStart), fee.DateOf(key.PeriodEnd)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new fee record
func (r *GormFeeRecordRepository) Create(ctx context.Context, record *fee.FeeRecord) error {
	return createFeeRecord(r.db.WithContext(ctx), record)
}

// Save persists the payment state of an existing record
func (r *GormFeeRecordRepository) Save(ctx context.Context, record *fee.FeeRecord) error {
	return saveFeeRecord(r.db.WithContext(ctx), record)
}

func findFeeRecord(db *gorm.DB, id uuid.UUID) (*fee.FeeRecord, error) {
	var model models.FeeRecordModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Fee record not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func createFeeRecord(db *gorm.DB, record *fee.FeeRecord) error {
	if err := db.Create(models.FeeRecordModelFromDomain(record)).Error; err != nil {
		if isUniqueViolation(err) {
			return fee.ErrDuplicatePeriod
		}
		return fmt.Errorf("failed to create fee record: %w", err)
	}
	return nil
}

func saveFeeRecord(db *gorm.DB, record *fee.FeeRecord) error {
	result := db.Model(&models.FeeRecordModel{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"status":          record.Status,
			"paid_date":       record.PaidDate,
			"paid_amount":     record.PaidAmount,
			"payment_method":  record.PaymentMethod,
			"discount_amount": record.DiscountAmount,
			"late_fee":        record.LateFee,
			"remark":          record.Remark,
			"updated_at":      record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("Fee record not found")
	}
	return nil
}

func assetColumn(kind asset.Kind) (string, error) {
	switch kind {
	case asset.KindProperty:
		return "property_id", nil
	case asset.KindParking:
		return "parking_space_id", nil
	default:
		return "", fmt.Errorf("unknown asset kind %q", kind)
	}
}

func applyRecordFilter(query *gorm.DB, filter fee.RecordFilter) *gorm.DB {
	if filter.CommunityID != nil {
		query = query.Where("community_id = ?", *filter.CommunityID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.FeeItemID != nil {
		query = query.Where("fee_item_id = ?", *filter.FeeItemID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("due_date >= ?", fee.DateOf(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("due_date <= ?", fee.DateOf(*filter.EndDate))
	}
	return query
}

// Ensure GormFeeRecordRepository implements fee.RecordRepository
var _ fee.RecordRepository = (*GormFeeRecordRepository)(nil)
