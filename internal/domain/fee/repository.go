package fee

import (
	"context"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/shopspring/decimal"
)

// ItemRepository reads the fee item catalogue
type ItemRepository interface {
	FindByCode(ctx context.Context, code ItemCode) (*FeeItem, error)
	FindAll(ctx context.Context) ([]FeeItem, error)
}

// RateRepository is the rate table
type RateRepository interface {
	// FindEffective returns the latest active rate effective on or before
	// the cutoff, or shared.ErrNotFound
	FindEffective(ctx context.Context, q RateQuery) (*FeeRate, error)
	FindAll(ctx context.Context, filter RateFilter) ([]FeeRate, error)
	Save(ctx context.Context, rate *FeeRate) error
}

// RecordRepository persists fee records
type RecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FeeRecord, error)
	FindAll(ctx context.Context, filter RecordFilter) ([]FeeRecord, int64, error)
	Statistics(ctx context.Context, filter RecordFilter) (*RecordStatistics, error)

	// SumPaid totals paid_amount over paid records of one asset and fee item
	SumPaid(ctx context.Context, kind asset.Kind, assetID, feeItemID uuid.UUID) (decimal.Decimal, error)
	// SumUnpaidByOwner totals the amounts of the owner's unpaid records
	SumUnpaidByOwner(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
	// ExistsForPeriod reports whether a record with the same key is already billed
	ExistsForPeriod(ctx context.Context, key PeriodKey) (bool, error)

	// Create inserts a new record. Returns ErrDuplicatePeriod when the
	// period uniqueness constraint rejects the row.
	Create(ctx context.Context, record *FeeRecord) error
	Save(ctx context.Context, record *FeeRecord) error
}

// MeterReadingRepository persists meter readings
type MeterReadingRepository interface {
	// FindLatest returns the most recent reading or shared.ErrNotFound
	FindLatest(ctx context.Context, propertyID uuid.UUID, meterType MeterType) (*MeterReading, error)
	// Create stores the reading and, when non-nil, its fee record in one transaction
	Create(ctx context.Context, reading *MeterReading, record *FeeRecord) error
}
