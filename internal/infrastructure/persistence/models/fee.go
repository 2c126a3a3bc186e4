package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/shopspring/decimal"
)

// FeeItemModel is the persistence model for a chargeable fee item
type FeeItemModel struct {
	BaseModel
	Code              fee.ItemCode          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name              string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	CalculationMethod fee.CalculationMethod `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (FeeItemModel) TableName() string {
	return "fee_items"
}

// ToDomain converts the persistence model to a domain FeeItem
func (m *FeeItemModel) ToDomain() *fee.FeeItem {
	return &fee.FeeItem{
		ID:                m.ID,
		Code:              m.Code,
		Name:              m.Name,
		CalculationMethod: m.CalculationMethod,
	}
}

// FeeRateModel is the persistence model for one versioned price list entry
type FeeRateModel struct {
	BaseModel
	CommunityID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_fee_rates_lookup,priority:1;uniqueIndex:idx_fee_rates_active_version,priority:1,where:is_active"`
	FeeItemID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_fee_rates_lookup,priority:2;uniqueIndex:idx_fee_rates_active_version,priority:2"`
	AssetKind     asset.Kind      `gorm:"type:varchar(20);not null;index:idx_fee_rates_lookup,priority:3;uniqueIndex:idx_fee_rates_active_version,priority:3"`
	AssetType     string          `gorm:"type:varchar(30);not null;index:idx_fee_rates_lookup,priority:4;uniqueIndex:idx_fee_rates_active_version,priority:4"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	EffectiveDate time.Time       `gorm:"type:date;not null;index:idx_fee_rates_lookup,priority:5;uniqueIndex:idx_fee_rates_active_version,priority:5"`
	IsActive      bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FeeRateModel) TableName() string {
	return "fee_rates"
}

// ToDomain converts the persistence model to a domain FeeRate
func (m *FeeRateModel) ToDomain() *fee.FeeRate {
	return &fee.FeeRate{
		BaseEntity:    m.BaseModel.ToDomain(),
		CommunityID:   m.CommunityID,
		FeeItemID:     m.FeeItemID,
		AssetKind:     m.AssetKind,
		AssetType:     m.AssetType,
		UnitPrice:     m.UnitPrice,
		EffectiveDate: *utcDate(&m.EffectiveDate),
		IsActive:      m.IsActive,
	}
}

// FeeRateModelFromDomain creates a persistence model from a domain FeeRate
func FeeRateModelFromDomain(r *fee.FeeRate) *FeeRateModel {
	m := &FeeRateModel{
		CommunityID:   r.CommunityID,
		FeeItemID:     r.FeeItemID,
		AssetKind:     r.AssetKind,
		AssetType:     r.AssetType,
		UnitPrice:     r.UnitPrice,
		EffectiveDate: r.EffectiveDate,
		IsActive:      r.IsActive,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// FeeRecordModel is the persistence model for a billed charge.
// The two partial unique indexes reject a second record for the same
// asset, fee item and period bounds.
type FeeRecordModel struct {
	BaseModel
	CommunityID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	PropertyID     *uuid.UUID        `gorm:"type:uuid;index;uniqueIndex:idx_fee_records_property_period,priority:1,where:property_id IS NOT NULL"`
	ParkingSpaceID *uuid.UUID        `gorm:"type:uuid;index;uniqueIndex:idx_fee_records_parking_period,priority:1,where:parking_space_id IS NOT NULL"`
	OwnerID        *uuid.UUID        `gorm:"type:uuid;index"`
	FeeItemID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_fee_records_property_period,priority:2;uniqueIndex:idx_fee_records_parking_period,priority:2"`
	Amount         decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	PeriodStart    *time.Time        `gorm:"type:date;uniqueIndex:idx_fee_records_property_period,priority:3;uniqueIndex:idx_fee_records_parking_period,priority:3"`
	PeriodEnd      *time.Time        `gorm:"type:date;uniqueIndex:idx_fee_records_property_period,priority:4;uniqueIndex:idx_fee_records_parking_period,priority:4"`
	Status         fee.Status        `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	DueDate        time.Time         `gorm:"type:date;not null"`
	PaidDate       *time.Time        `gorm:"type:date"`
	PaidAmount     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod  fee.PaymentMethod `gorm:"type:varchar(20)"`
	DiscountAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	LateFee        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Remark         string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FeeRecordModel) TableName() string {
	return "fee_records"
}

// ToDomain converts the persistence model to a domain FeeRecord
func (m *FeeRecordModel) ToDomain() *fee.FeeRecord {
	return &fee.FeeRecord{
		BaseEntity:     m.BaseModel.ToDomain(),
		CommunityID:    m.CommunityID,
		PropertyID:     m.PropertyID,
		ParkingSpaceID: m.ParkingSpaceID,
		OwnerID:        m.OwnerID,
		FeeItemID:      m.FeeItemID,
		Amount:         m.Amount,
		PeriodStart:    utcDate(m.PeriodStart),
		PeriodEnd:      utcDate(m.PeriodEnd),
		Status:         m.Status,
		DueDate:        *utcDate(&m.DueDate),
		PaidDate:       utcDate(m.PaidDate),
		PaidAmount:     m.PaidAmount,
		PaymentMethod:  m.PaymentMethod,
		DiscountAmount: m.DiscountAmount,
		LateFee:        m.LateFee,
		Remark:         m.Remark,
	}
}

// FromDomain populates the persistence model from a domain FeeRecord
func (m *FeeRecordModel) FromDomain(r *fee.FeeRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.CommunityID = r.CommunityID
	m.PropertyID = r.PropertyID
	m.ParkingSpaceID = r.ParkingSpaceID
	m.OwnerID = r.OwnerID
	m.FeeItemID = r.FeeItemID
	m.Amount = r.Amount
	m.PeriodStart = r.PeriodStart
	m.PeriodEnd = r.PeriodEnd
	m.Status = r.Status
	m.DueDate = r.DueDate
	m.PaidDate = r.PaidDate
	m.PaidAmount = r.PaidAmount
	m.PaymentMethod = r.PaymentMethod
	m.DiscountAmount = r.DiscountAmount
	m.LateFee = r.LateFee
	m.Remark = r.Remark
}

// FeeRecordModelFromDomain creates a new persistence model from a domain FeeRecord
func FeeRecordModelFromDomain(r *fee.FeeRecord) *FeeRecordModel {
	m := &FeeRecordModel{}
	m.FromDomain(r)
	return m
}

// MeterReadingModel is the persistence model for a water or electricity reading
type MeterReadingModel struct {
	BaseModel
	PropertyID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_meter_readings_latest,priority:1"`
	MeterType       fee.MeterType   `gorm:"type:varchar(20);not null;index:idx_meter_readings_latest,priority:2"`
	ReadingDate     time.Time       `gorm:"type:date;not null;index:idx_meter_readings_latest,priority:3"`
	PreviousReading decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentReading  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Usage           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReadingType     string          `gorm:"type:varchar(20);not null;default:'monthly'"`
	PrepaidBalance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reader          string          `gorm:"type:varchar(50)"`
	Remark          string          `gorm:"type:text"`
	FeeRecordID     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (MeterReadingModel) TableName() string {
	return "meter_readings"
}

// ToDomain converts the persistence model to a domain MeterReading
func (m *MeterReadingModel) ToDomain() *fee.MeterReading {
	return &fee.MeterReading{
		BaseEntity:      m.BaseModel.ToDomain(),
		PropertyID:      m.PropertyID,
		MeterType:       m.MeterType,
		ReadingDate:     *utcDate(&m.ReadingDate),
		PreviousReading: m.PreviousReading,
		CurrentReading:  m.CurrentReading,
		Usage:           m.Usage,
		UnitPrice:       m.UnitPrice,
		Amount:          m.Amount,
		ReadingType:     m.ReadingType,
		PrepaidBalance:  m.PrepaidBalance,
		Reader:          m.Reader,
		Remark:          m.Remark,
		FeeRecordID:     m.FeeRecordID,
	}
}

// MeterReadingModelFromDomain creates a persistence model from a domain MeterReading
func MeterReadingModelFromDomain(r *fee.MeterReading) *MeterReadingModel {
	return &MeterReadingModel{
		BaseModel: BaseModel{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		PropertyID:      r.PropertyID,
		MeterType:       r.MeterType,
		ReadingDate:     r.ReadingDate,
		PreviousReading: r.PreviousReading,
		CurrentReading:  r.CurrentReading,
		Usage:           r.Usage,
		UnitPrice:       r.UnitPrice,
		Amount:          r.Amount,
		ReadingType:     r.ReadingType,
		PrepaidBalance:  r.PrepaidBalance,
		Reader:          r.Reader,
		Remark:          r.Remark,
		FeeRecordID:     r.FeeRecordID,
	}
}

