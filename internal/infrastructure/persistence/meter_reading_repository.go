package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMeterReadingRepository implements fee.MeterReadingRepository using GORM
type GormMeterReadingRepository struct {
	db *gorm.DB
}

// NewGormMeterReadingRepository creates a new GormMeterReadingRepository
func NewGormMeterReadingRepository(db *gorm.DB) *GormMeterReadingRepository {
	return &GormMeterReadingRepository{db: db}
}

// FindLatest returns the most recent reading of a property's meter
func (r *GormMeterReadingRepository) FindLatest(ctx context.Context, propertyID uuid.UUID, meterType fee.MeterType) (*fee.MeterReading, error) {
	var model models.MeterReadingModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND meter_type = ?", propertyID, meterType).
		Order("reading_date DESC, created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create stores the reading and, when given, the fee record it generated
func (r *GormMeterReadingRepository) Create(ctx context.Context, reading *fee.MeterReading, record *fee.FeeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record != nil {
			if err := createFeeRecord(tx, record); err != nil {
				return err
			}
			id := record.ID
			reading.FeeRecordID = &id
		}
		return tx.Create(models.MeterReadingModelFromDomain(reading)).Error
	})
}

// Ensure GormMeterReadingRepository implements fee.MeterReadingRepository
var _ fee.MeterReadingRepository = (*GormMeterReadingRepository)(nil)
