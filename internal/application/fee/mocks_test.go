package fee

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockAssetRepository is a mock implementation of asset.Repository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindOwner(ctx context.Context, id uuid.UUID) (*asset.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Owner), args.Error(1)
}

func (m *MockAssetRepository) FindProperty(ctx context.Context, id uuid.UUID) (*asset.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Property), args.Error(1)
}

func (m *MockAssetRepository) FindDeliveredPropertiesByOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Property), args.Error(1)
}

func (m *MockAssetRepository) FindParkingSpacesByOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.ParkingSpace, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.ParkingSpace), args.Error(1)
}

func (m *MockAssetRepository) FindDeliveredProperties(ctx context.Context, communityID *uuid.UUID) ([]asset.Property, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Property), args.Error(1)
}

func (m *MockAssetRepository) FindOwnedParkingSpaces(ctx context.Context, communityID *uuid.UUID) ([]asset.ParkingSpace, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.ParkingSpace), args.Error(1)
}

// MockItemRepository is a mock implementation of fee.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByCode(ctx context.Context, code fee.ItemCode) (*fee.FeeItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeeItem), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context) ([]fee.FeeItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fee.FeeItem), args.Error(1)
}

// MockRateRepository is a mock implementation of fee.RateRepository
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindEffective(ctx context.Context, q fee.RateQuery) (*fee.FeeRate, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeeRate), args.Error(1)
}

func (m *MockRateRepository) FindAll(ctx context.Context, filter fee.RateFilter) ([]fee.FeeRate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fee.FeeRate), args.Error(1)
}

func (m *MockRateRepository) Save(ctx context.Context, rate *fee.FeeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// MockRecordRepository is a mock implementation of fee.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.FeeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.FeeRecord), args.Error(1)
}

func (m *MockRecordRepository) FindAll(ctx context.Context, filter fee.RecordFilter) ([]fee.FeeRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]fee.FeeRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) Statistics(ctx context.Context, filter fee.RecordFilter) (*fee.RecordStatistics, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.RecordStatistics), args.Error(1)
}

func (m *MockRecordRepository) SumPaid(ctx context.Context, kind asset.Kind, assetID, feeItemID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, kind, assetID, feeItemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRecordRepository) SumUnpaidByOwner(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRecordRepository) ExistsForPeriod(ctx context.Context, key fee.PeriodKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) Create(ctx context.Context, record *fee.FeeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Save(ctx context.Context, record *fee.FeeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockMeterReadingRepository is a mock implementation of fee.MeterReadingRepository
type MockMeterReadingRepository struct {
	mock.Mock
}

func (m *MockMeterReadingRepository) FindLatest(ctx context.Context, propertyID uuid.UUID, meterType fee.MeterType) (*fee.MeterReading, error) {
	args := m.Called(ctx, propertyID, meterType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.MeterReading), args.Error(1)
}

func (m *MockMeterReadingRepository) Create(ctx context.Context, reading *fee.MeterReading, record *fee.FeeRecord) error {
	args := m.Called(ctx, reading, record)
	return args.Error(0)
}

// MockRunLock is a mock implementation of shared.RunLock
type MockRunLock struct {
	mock.Mock
}

func (m *MockRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockRunLock) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRunLock) Close() error {
	return m.Called().Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

var (
	propertyFeeItem = &fee.FeeItem{ID: uuid.New(), Code: fee.ItemPropertyFee, Name: "Property fee", CalculationMethod: fee.MethodArea}
	parkingFeeItem  = &fee.FeeItem{ID: uuid.New(), Code: fee.ItemParkingFee, Name: "Parking fee", CalculationMethod: fee.MethodFixed}
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newProperty(communityID, ownerID uuid.UUID, area string, handover *time.Time) asset.Property {
	return asset.Property{
		ID:            uuid.New(),
		CommunityID:   communityID,
		CommunityName: "Sunrise Garden",
		PropertyType:  "residential",
		Building:      "3",
		Unit:          "2",
		Room:          "1201",
		Area:          decimal.RequireFromString(area),
		IsDelivered:   handover != nil,
		HandoverDate:  handover,
		OwnerID:       &ownerID,
	}
}

func newRate(communityID, feeItemID uuid.UUID, kind asset.Kind, price string) *fee.FeeRate {
	return &fee.FeeRate{
		CommunityID:   communityID,
		FeeItemID:     feeItemID,
		AssetKind:     kind,
		AssetType:     "residential",
		UnitPrice:     decimal.RequireFromString(price),
		EffectiveDate: date(2023, 1, 1),
		IsActive:      true,
	}
}

func expectItems(items *MockItemRepository) {
	items.On("FindByCode", mock.Anything, fee.ItemPropertyFee).Return(propertyFeeItem, nil)
	items.On("FindByCode", mock.Anything, fee.ItemParkingFee).Return(parkingFeeItem, nil)
}
