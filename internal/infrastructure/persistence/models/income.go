package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/income"
	"github.com/shopspring/decimal"
)

// DailyIncomeModel is the persistence model for a daily income entry
type DailyIncomeModel struct {
	BaseModel
	CommunityID uuid.UUID        `gorm:"type:uuid;not null;index:idx_daily_income_community_date,priority:1"`
	PropertyID  *uuid.UUID       `gorm:"type:uuid"`
	RecordDate  time.Time        `gorm:"type:date;not null;index:idx_daily_income_community_date,priority:2"`
	IncomeType  string           `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Quantity    int              `gorm:"not null;default:1"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Description string           `gorm:"type:text"`
	Collector   string           `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (DailyIncomeModel) TableName() string {
	return "daily_income_records"
}

// ToDomain converts the persistence model to a domain income Record
func (m *DailyIncomeModel) ToDomain() *income.Record {
	return &income.Record{
		BaseEntity:  m.BaseModel.ToDomain(),
		CommunityID: m.CommunityID,
		PropertyID:  m.PropertyID,
		RecordDate:  *utcDate(&m.RecordDate),
		IncomeType:  m.IncomeType,
		Amount:      m.Amount,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Description: m.Description,
		Collector:   m.Collector,
	}
}

// DailyIncomeModelFromDomain creates a persistence model from a domain income Record
func DailyIncomeModelFromDomain(r *income.Record) *DailyIncomeModel {
	m := &DailyIncomeModel{
		CommunityID: r.CommunityID,
		PropertyID:  r.PropertyID,
		RecordDate:  r.RecordDate,
		IncomeType:  r.IncomeType,
		Amount:      r.Amount,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Description: r.Description,
		Collector:   r.Collector,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// All returns every persistence model in dependency order
func All() []any {
	return []any{
		&CommunityModel{},
		&OwnerModel{},
		&PropertyModel{},
		&ParkingSpaceModel{},
		&FeeItemModel{},
		&FeeRateModel{},
		&FeeRecordModel{},
		&MeterReadingModel{},
		&DepositModel{},
		&DepositDeductionModel{},
		&DailyIncomeModel{},
	}
}
