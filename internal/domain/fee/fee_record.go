package fee

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the payment state of a fee record
type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusUnpaid || s == StatusPaid
}

// PaymentMethod records how a fee was settled
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentWechat  PaymentMethod = "wechat"
	PaymentAlipay  PaymentMethod = "alipay"
	PaymentBank    PaymentMethod = "bank"
	PaymentDeposit PaymentMethod = "deposit"
)

// FeeRecord is one billed charge. At most one of PropertyID and
// ParkingSpaceID is set; neither is set for ad-hoc charges.
type FeeRecord struct {
	shared.BaseEntity
	CommunityID    uuid.UUID
	PropertyID     *uuid.UUID
	ParkingSpaceID *uuid.UUID
	OwnerID        *uuid.UUID
	FeeItemID      uuid.UUID
	Amount         decimal.Decimal
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
	Status         Status
	DueDate        time.Time
	PaidDate       *time.Time
	PaidAmount     decimal.Decimal
	PaymentMethod  PaymentMethod
	DiscountAmount decimal.Decimal
	LateFee        decimal.Decimal
	Remark         string
}

// NewRecordParams carries the inputs for a new unpaid fee record
type NewRecordParams struct {
	CommunityID uuid.UUID
	AssetKind   asset.Kind // empty for ad-hoc charges
	AssetID     uuid.UUID
	OwnerID     *uuid.UUID
	FeeItemID   uuid.UUID
	Amount      decimal.Decimal
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	DueDate     time.Time
	Remark      string
}

// NewFeeRecord creates an unpaid fee record
func NewFeeRecord(p NewRecordParams) (*FeeRecord, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if p.FeeItemID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("fee_item_id is required")
	}
	if (p.PeriodStart == nil) != (p.PeriodEnd == nil) {
		return nil, shared.ErrInvalidInput.WithMessage("period_start and period_end must be set together")
	}
	if p.PeriodStart != nil && p.PeriodEnd.Before(*p.PeriodStart) {
		return nil, shared.ErrInvalidInput.WithMessage("period_end cannot precede period_start")
	}

	r := &FeeRecord{
		BaseEntity:  shared.NewBaseEntity(),
		CommunityID: p.CommunityID,
		OwnerID:     p.OwnerID,
		FeeItemID:   p.FeeItemID,
		Amount:      p.Amount,
		Status:      StatusUnpaid,
		DueDate:     DateOf(p.DueDate),
		PaidAmount:  decimal.Zero,
		Remark:      p.Remark,
	}
	if p.PeriodStart != nil {
		start, end := DateOf(*p.PeriodStart), DateOf(*p.PeriodEnd)
		r.PeriodStart, r.PeriodEnd = &start, &end
	}

	switch p.AssetKind {
	case asset.KindProperty:
		id := p.AssetID
		r.PropertyID = &id
	case asset.KindParking:
		id := p.AssetID
		r.ParkingSpaceID = &id
	case "":
	default:
		return nil, shared.ErrInvalidInput.WithMessage("unknown asset kind")
	}
	return r, nil
}

// AssetKind reports which asset the record bills, if any
func (r *FeeRecord) AssetKind() asset.Kind {
	switch {
	case r.PropertyID != nil:
		return asset.KindProperty
	case r.ParkingSpaceID != nil:
		return asset.KindParking
	default:
		return ""
	}
}

// IsPaid reports whether the record has been settled
func (r *FeeRecord) IsPaid() bool {
	return r.Status == StatusPaid
}

// Payment describes a settlement of a fee record
type Payment struct {
	PaidAmount     *decimal.Decimal // defaults to the record amount
	Method         PaymentMethod
	DiscountAmount decimal.Decimal
	LateFee        decimal.Decimal
	Remark         string
	PaidOn         time.Time
}

// Pay marks the record paid
func (r *FeeRecord) Pay(p Payment) error {
	if r.IsPaid() {
		return ErrFeeRecordAlreadyPaid
	}
	paid := r.Amount
	if p.PaidAmount != nil {
		paid = *p.PaidAmount
	}
	if paid.IsNegative() || p.DiscountAmount.IsNegative() || p.LateFee.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("payment amounts cannot be negative")
	}

	paidOn := DateOf(p.PaidOn)
	r.Status = StatusPaid
	r.PaidAmount = paid
	r.PaidDate = &paidOn
	r.PaymentMethod = p.Method
	if p.DiscountAmount.IsPositive() {
		r.DiscountAmount = p.DiscountAmount
	}
	if p.LateFee.IsPositive() {
		r.LateFee = p.LateFee
	}
	if p.Remark != "" {
		r.Remark = p.Remark
	}
	r.Touch()
	return nil
}

// PeriodKey identifies a billed period for duplicate detection. Two records
// with the same key must never coexist; amounts are deliberately not part of it.
type PeriodKey struct {
	AssetKind   asset.Kind
	AssetID     uuid.UUID
	FeeItemID   uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// RecordFilter narrows fee record listings
type RecordFilter struct {
	CommunityID *uuid.UUID
	OwnerID     *uuid.UUID
	PropertyID  *uuid.UUID
	FeeItemID   *uuid.UUID
	Status      Status
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

// Pagination returns the page window of the filter
func (f RecordFilter) Pagination() shared.Pagination {
	return shared.Pagination{Page: f.Page, PageSize: f.PageSize}
}

// RecordStatistics aggregates a filtered set of fee records
type RecordStatistics struct {
	TotalCount   int64
	PaidCount    int64
	UnpaidCount  int64
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	UnpaidAmount decimal.Decimal
}
