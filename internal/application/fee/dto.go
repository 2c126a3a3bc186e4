package fee

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/shopspring/decimal"
)

// Detail reasons for assets that contribute nothing
const (
	ReasonNoRate    = "no rate configured"
	ReasonNotDue    = "billing not yet due"
	ReasonDuplicate = "period already billed"
)

// OutstandingDetail is the priced result for one asset and fee item
type OutstandingDetail struct {
	AssetKind         asset.Kind       `json:"asset_type"`
	AssetID           uuid.UUID        `json:"asset_id"`
	AssetDescription  string           `json:"asset_description"`
	CommunityID       uuid.UUID        `json:"community_id"`
	FeeItem           fee.ItemCode     `json:"fee_item"`
	FeeItemID         uuid.UUID        `json:"fee_item_id"`
	PeriodStart       string           `json:"period_start,omitempty"`
	PeriodEnd         string           `json:"period_end,omitempty"`
	TotalMonths       int              `json:"total_months"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	Area              *decimal.Decimal `json:"area,omitempty"`
	TotalShouldPay    decimal.Decimal  `json:"total_should_pay"`
	PaidAmount        decimal.Decimal  `json:"paid_amount"`
	OutstandingAmount decimal.Decimal  `json:"outstanding_amount"`
	Details           string           `json:"details"`

	periodStart time.Time
	periodEnd   time.Time
}

// OwnerOutstandingResponse aggregates an owner's outstanding fees
type OwnerOutstandingResponse struct {
	OwnerID             uuid.UUID           `json:"owner_id"`
	CalculationDate     string              `json:"calculation_date"`
	TotalOutstanding    decimal.Decimal     `json:"total_outstanding"`
	ExistingUnpaidTotal decimal.Decimal     `json:"existing_unpaid_total"`
	OutstandingDetails  []OutstandingDetail `json:"outstanding_details"`
}

// GenerateOutstandingRequest configures an owner's outstanding bill run
type GenerateOutstandingRequest struct {
	DueDate *time.Time
	Remark  string
	AsOf    *time.Time
}

// GenerateMonthlyRequest configures a monthly bill run
type GenerateMonthlyRequest struct {
	CommunityID *uuid.UUID
	BillMonth   string
	DueDate     time.Time
}

// Bill item outcomes
const (
	OutcomeGenerated = "generated"
	OutcomeSkipped   = "skipped"
)

// BillItemResult reports what happened to one (asset, fee item) pair
type BillItemResult struct {
	AssetKind   asset.Kind      `json:"asset_type"`
	AssetID     uuid.UUID       `json:"asset_id"`
	FeeItem     fee.ItemCode    `json:"fee_item"`
	Amount      decimal.Decimal `json:"amount"`
	Outcome     string          `json:"outcome"`
	Reason      string          `json:"reason,omitempty"`
	FeeRecordID *uuid.UUID      `json:"fee_record_id,omitempty"`
}

// BillRunResult summarises a bill run. Failures are reported in Errors and
// never abort the run.
type BillRunResult struct {
	GeneratedCount int              `json:"generated_count"`
	SkippedCount   int              `json:"skipped_count"`
	FailedCount    int              `json:"failed_count"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	PeriodStart    string           `json:"period_start,omitempty"`
	PeriodEnd      string           `json:"period_end,omitempty"`
	Items          []BillItemResult `json:"items"`
	Errors         []BillItemError  `json:"errors"`
}

// BillItemError is a failed (asset, fee item) pair
type BillItemError struct {
	AssetKind asset.Kind   `json:"asset_type"`
	AssetID   uuid.UUID    `json:"asset_id"`
	FeeItem   fee.ItemCode `json:"fee_item"`
	Error     string       `json:"error"`
}

func newBillRunResult() *BillRunResult {
	return &BillRunResult{
		TotalAmount: decimal.Zero,
		Items:       make([]BillItemResult, 0),
		Errors:      make([]BillItemError, 0),
	}
}

func (r *BillRunResult) generated(item BillItemResult, recordID uuid.UUID) {
	item.Outcome = OutcomeGenerated
	item.FeeRecordID = &recordID
	r.GeneratedCount++
	r.TotalAmount = r.TotalAmount.Add(item.Amount)
	r.Items = append(r.Items, item)
}

func (r *BillRunResult) skipped(item BillItemResult, reason string) {
	item.Outcome = OutcomeSkipped
	item.Reason = reason
	r.SkippedCount++
	r.Items = append(r.Items, item)
}

func (r *BillRunResult) failed(item BillItemResult, err error) {
	r.FailedCount++
	r.Errors = append(r.Errors, BillItemError{
		AssetKind: item.AssetKind,
		AssetID:   item.AssetID,
		FeeItem:   item.FeeItem,
		Error:     err.Error(),
	})
}

// FeeRecordResponse is the API view of a fee record
type FeeRecordResponse struct {
	ID             uuid.UUID       `json:"id"`
	CommunityID    uuid.UUID       `json:"community_id"`
	PropertyID     *uuid.UUID      `json:"property_id,omitempty"`
	ParkingSpaceID *uuid.UUID      `json:"parking_space_id,omitempty"`
	OwnerID        *uuid.UUID      `json:"owner_id,omitempty"`
	FeeItemID      uuid.UUID       `json:"fee_item_id"`
	Amount         decimal.Decimal `json:"amount"`
	PeriodStart    *string         `json:"period_start,omitempty"`
	PeriodEnd      *string         `json:"period_end,omitempty"`
	Status         fee.Status      `json:"status"`
	DueDate        string          `json:"due_date"`
	PaidDate       *string         `json:"paid_date,omitempty"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	LateFee        decimal.Decimal `json:"late_fee"`
	Remark         string          `json:"remark,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fee.FormatDate(*t)
	return &s
}

// ToFeeRecordResponse converts a domain record to its API view
func ToFeeRecordResponse(r *fee.FeeRecord) FeeRecordResponse {
	return FeeRecordResponse{
		ID:             r.ID,
		CommunityID:    r.CommunityID,
		PropertyID:     r.PropertyID,
		ParkingSpaceID: r.ParkingSpaceID,
		OwnerID:        r.OwnerID,
		FeeItemID:      r.FeeItemID,
		Amount:         r.Amount,
		PeriodStart:    formatDatePtr(r.PeriodStart),
		PeriodEnd:      formatDatePtr(r.PeriodEnd),
		Status:         r.Status,
		DueDate:        fee.FormatDate(r.DueDate),
		PaidDate:       formatDatePtr(r.PaidDate),
		PaidAmount:     r.PaidAmount,
		PaymentMethod:  string(r.PaymentMethod),
		DiscountAmount: r.DiscountAmount,
		LateFee:        r.LateFee,
		Remark:         r.Remark,
		CreatedAt:      r.CreatedAt,
	}
}

// RecordStatisticsResponse is the API view of fee record statistics
type RecordStatisticsResponse struct {
	TotalCount   int64           `json:"total_count"`
	PaidCount    int64           `json:"paid_count"`
	UnpaidCount  int64           `json:"unpaid_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
}

// FeeRecordListResponse bundles a page of records with statistics
type FeeRecordListResponse struct {
	Records    []FeeRecordResponse      `json:"records"`
	Total      int64                    `json:"-"`
	Page       int                      `json:"-"`
	PageSize   int                      `json:"-"`
	Statistics RecordStatisticsResponse `json:"statistics"`
}

// PayFeeRecordRequest settles a fee record
type PayFeeRecordRequest struct {
	PaidAmount     *decimal.Decimal
	PaymentMethod  fee.PaymentMethod
	DiscountAmount decimal.Decimal
	LateFee        decimal.Decimal
	Remark         string
}

// CreateRateRequest adds a price list entry
type CreateRateRequest struct {
	CommunityID   uuid.UUID
	FeeItem       fee.ItemCode
	AssetKind     asset.Kind
	AssetType     string
	UnitPrice     decimal.Decimal
	EffectiveDate time.Time
}

// RateResponse is the API view of a fee rate
type RateResponse struct {
	ID            uuid.UUID       `json:"id"`
	CommunityID   uuid.UUID       `json:"community_id"`
	FeeItemID     uuid.UUID       `json:"fee_item_id"`
	AssetKind     asset.Kind      `json:"asset_kind"`
	AssetType     string          `json:"asset_type"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	EffectiveDate string          `json:"effective_date"`
	IsActive      bool            `json:"is_active"`
}

// ToRateResponse converts a domain rate to its API view
func ToRateResponse(r *fee.FeeRate) RateResponse {
	return RateResponse{
		ID:            r.ID,
		CommunityID:   r.CommunityID,
		FeeItemID:     r.FeeItemID,
		AssetKind:     r.AssetKind,
		AssetType:     r.AssetType,
		UnitPrice:     r.UnitPrice,
		EffectiveDate: fee.FormatDate(r.EffectiveDate),
		IsActive:      r.IsActive,
	}
}

// MeterReadingRequest records a meter read
type MeterReadingRequest struct {
	PropertyID     uuid.UUID
	ReadingDate    time.Time
	CurrentReading decimal.Decimal
	UnitPrice      *decimal.Decimal // water only; electricity uses the rate table
	ReadingType    string
	PrepaidBalance decimal.Decimal
	Reader         string
	Remark         string
}

// MeterReadingResponse reports a stored reading and whether it was billed
type MeterReadingResponse struct {
	ReadingID      uuid.UUID       `json:"reading_id"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UsageAmount    decimal.Decimal `json:"usage_amount"`
	Amount         decimal.Decimal `json:"amount"`
	PrepaidBalance decimal.Decimal `json:"prepaid_balance"`
	FeeGenerated   bool            `json:"fee_generated"`
	FeeRecordID    *uuid.UUID      `json:"fee_record_id,omitempty"`
}
