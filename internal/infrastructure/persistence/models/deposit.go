package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/deposit"
	"github.com/shopspring/decimal"
)

// DepositModel is the persistence model for the Deposit aggregate root
type DepositModel struct {
	AggregateModel
	CommunityID uuid.UUID       `gorm:"type:uuid;not null;index"`
	PropertyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DepositType string          `gorm:"type:varchar(30);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status      deposit.Status  `gorm:"type:varchar(20);not null;default:'active';index"`
	PaidDate    time.Time       `gorm:"type:date;not null"`
	RefundDate  *time.Time      `gorm:"type:date"`
	AutoDeduct  bool            `gorm:"not null;default:false"`
	Remark      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DepositModel) TableName() string {
	return "deposit_records"
}

// ToDomain converts the persistence model to a domain Deposit
func (m *DepositModel) ToDomain() *deposit.Deposit {
	return &deposit.Deposit{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CommunityID:       m.CommunityID,
		PropertyID:        m.PropertyID,
		DepositType:       m.DepositType,
		Amount:            m.Amount,
		Balance:           m.Balance,
		Status:            m.Status,
		PaidDate:          *utcDate(&m.PaidDate),
		RefundDate:        utcDate(m.RefundDate),
		AutoDeduct:        m.AutoDeduct,
		Remark:            m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Deposit
func (m *DepositModel) FromDomain(d *deposit.Deposit) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.CommunityID = d.CommunityID
	m.PropertyID = d.PropertyID
	m.DepositType = d.DepositType
	m.Amount = d.Amount
	m.Balance = d.Balance
	m.Status = d.Status
	m.PaidDate = d.PaidDate
	m.RefundDate = d.RefundDate
	m.AutoDeduct = d.AutoDeduct
	m.Remark = d.Remark
}

// DepositModelFromDomain creates a new persistence model from a domain Deposit
func DepositModelFromDomain(d *deposit.Deposit) *DepositModel {
	m := &DepositModel{}
	m.FromDomain(d)
	return m
}

// DepositDeductionModel is the persistence model for one append-only deduction
type DepositDeductionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DepositID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	FeeRecordID   *uuid.UUID      `gorm:"type:uuid;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DeductionDate time.Time       `gorm:"type:date;not null"`
	Reason        string          `gorm:"type:varchar(200)"`
	Remark        string          `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DepositDeductionModel) TableName() string {
	return "deposit_deductions"
}

// ToDomain converts the persistence model to a domain Deduction
func (m *DepositDeductionModel) ToDomain() *deposit.Deduction {
	return &deposit.Deduction{
		ID:            m.ID,
		DepositID:     m.DepositID,
		FeeRecordID:   m.FeeRecordID,
		Amount:        m.Amount,
		DeductionDate: *utcDate(&m.DeductionDate),
		Reason:        m.Reason,
		Remark:        m.Remark,
		CreatedAt:     m.CreatedAt,
	}
}

// DepositDeductionModelFromDomain creates a persistence model from a domain Deduction
func DepositDeductionModelFromDomain(d *deposit.Deduction) *DepositDeductionModel {
	return &DepositDeductionModel{
		ID:            d.ID,
		DepositID:     d.DepositID,
		FeeRecordID:   d.FeeRecordID,
		Amount:        d.Amount,
		DeductionDate: d.DeductionDate,
		Reason:        d.Reason,
		Remark:        d.Remark,
		CreatedAt:     d.CreatedAt,
	}
}
