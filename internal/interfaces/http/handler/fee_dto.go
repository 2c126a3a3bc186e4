package handler

import (
	"github.com/google/uuid"
	feeapp "github.com/propmgmt/backend/internal/application/fee"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/shopspring/decimal"
)

// GenerateOutstandingRequest is the body of POST /fees/generate-outstanding/:owner_id
type GenerateOutstandingRequest struct {
	DueDate  string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Remark   string `json:"remark" binding:"max=500"`
	AsOfDate string `json:"as_of_date" binding:"omitempty,datetime=2006-01-02"`
}

func (r GenerateOutstandingRequest) toApp() feeapp.GenerateOutstandingRequest {
	req := feeapp.GenerateOutstandingRequest{Remark: r.Remark}
	req.DueDate, _ = parseOptionalDate(r.DueDate)
	req.AsOf, _ = parseOptionalDate(r.AsOfDate)
	return req
}

// GenerateMonthlyRequest is the body of POST /fees/generate-monthly
type GenerateMonthlyRequest struct {
	CommunityID string `json:"community_id" binding:"omitempty,uuid"`
	BillMonth   string `json:"bill_month" binding:"required,yearmonth"`
	DueDate     string `json:"due_date" binding:"required,datetime=2006-01-02"`
}

func (r GenerateMonthlyRequest) toApp() feeapp.GenerateMonthlyRequest {
	req := feeapp.GenerateMonthlyRequest{BillMonth: r.BillMonth}
	req.CommunityID, _ = parseOptionalUUID(r.CommunityID)
	req.DueDate, _ = fee.ParseDate(r.DueDate)
	return req
}

// CreateRateRequest is the body of POST /fees/rates
type CreateRateRequest struct {
	CommunityID   string          `json:"community_id" binding:"required,uuid"`
	FeeItem       string          `json:"fee_item" binding:"required,oneof=PROPERTY_FEE PARKING_FEE WATER_FEE ELECTRICITY_FEE"`
	AssetKind     string          `json:"asset_kind" binding:"required,oneof=property parking"`
	AssetType     string          `json:"asset_type" binding:"required,max=30"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"gte=0"`
	EffectiveDate string          `json:"effective_date" binding:"required,datetime=2006-01-02"`
}

func (r CreateRateRequest) toApp() feeapp.CreateRateRequest {
	effective, _ := fee.ParseDate(r.EffectiveDate)
	return feeapp.CreateRateRequest{
		CommunityID:   uuid.MustParse(r.CommunityID),
		FeeItem:       fee.ItemCode(r.FeeItem),
		AssetKind:     asset.Kind(r.AssetKind),
		AssetType:     r.AssetType,
		UnitPrice:     r.UnitPrice,
		EffectiveDate: effective,
	}
}

// ListRatesQuery holds the query parameters of GET /fees/rates
type ListRatesQuery struct {
	CommunityID string `form:"community_id" binding:"omitempty,uuid"`
	FeeItemID   string `form:"fee_item_id" binding:"omitempty,uuid"`
	AssetKind   string `form:"asset_kind" binding:"omitempty,oneof=property parking"`
	ActiveOnly  bool   `form:"active_only"`
}

func (q ListRatesQuery) toFilter() fee.RateFilter {
	f := fee.RateFilter{AssetKind: asset.Kind(q.AssetKind), ActiveOnly: q.ActiveOnly}
	f.CommunityID, _ = parseOptionalUUID(q.CommunityID)
	f.FeeItemID, _ = parseOptionalUUID(q.FeeItemID)
	return f
}

// ListFeeRecordsQuery holds the query parameters of GET /fees/records
type ListFeeRecordsQuery struct {
	CommunityID string `form:"community_id" binding:"omitempty,uuid"`
	OwnerID     string `form:"owner_id" binding:"omitempty,uuid"`
	PropertyID  string `form:"property_id" binding:"omitempty,uuid"`
	FeeItemID   string `form:"fee_item_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=unpaid paid"`
	StartDate   string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=due_date amount period_start paid_date status created_at"`
	SortOrder   string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (q ListFeeRecordsQuery) toFilter() fee.RecordFilter {
	f := fee.RecordFilter{
		Status:    fee.Status(q.Status),
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	f.CommunityID, _ = parseOptionalUUID(q.CommunityID)
	f.OwnerID, _ = parseOptionalUUID(q.OwnerID)
	f.PropertyID, _ = parseOptionalUUID(q.PropertyID)
	f.FeeItemID, _ = parseOptionalUUID(q.FeeItemID)
	f.StartDate, _ = parseOptionalDate(q.StartDate)
	f.EndDate, _ = parseOptionalDate(q.EndDate)
	return f
}

// PayFeeRecordRequest is the body of POST /fees/records/:id/pay
type PayFeeRecordRequest struct {
	PaidAmount     *decimal.Decimal `json:"paid_amount" binding:"omitempty,gt=0"`
	PaymentMethod  string           `json:"payment_method" binding:"required,oneof=cash wechat alipay bank deposit"`
	DiscountAmount decimal.Decimal  `json:"discount_amount" binding:"gte=0"`
	LateFee        decimal.Decimal  `json:"late_fee" binding:"gte=0"`
	Remark         string           `json:"remark" binding:"max=500"`
}

func (r PayFeeRecordRequest) toApp() feeapp.PayFeeRecordRequest {
	return feeapp.PayFeeRecordRequest{
		PaidAmount:     r.PaidAmount,
		PaymentMethod:  fee.PaymentMethod(r.PaymentMethod),
		DiscountAmount: r.DiscountAmount,
		LateFee:        r.LateFee,
		Remark:         r.Remark,
	}
}

// MeterReadingRequest is the body of the water and electricity reading endpoints
type MeterReadingRequest struct {
	PropertyID     string           `json:"property_id" binding:"required,uuid"`
	ReadingDate    string           `json:"reading_date" binding:"required,datetime=2006-01-02"`
	CurrentReading decimal.Decimal  `json:"current_reading" binding:"gte=0"`
	UnitPrice      *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
	ReadingType    string           `json:"reading_type" binding:"omitempty,max=20"`
	PrepaidBalance decimal.Decimal  `json:"prepaid_balance"`
	Reader         string           `json:"reader" binding:"max=50"`
	Remark         string           `json:"remark" binding:"max=500"`
}

func (r MeterReadingRequest) toApp() feeapp.MeterReadingRequest {
	readingDate, _ := fee.ParseDate(r.ReadingDate)
	return feeapp.MeterReadingRequest{
		PropertyID:     uuid.MustParse(r.PropertyID),
		ReadingDate:    readingDate,
		CurrentReading: r.CurrentReading,
		UnitPrice:      r.UnitPrice,
		ReadingType:    r.ReadingType,
		PrepaidBalance: r.PrepaidBalance,
		Reader:         r.Reader,
		Remark:         r.Remark,
	}
}

// FeeItemResponse is the API view of a fee item
type FeeItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	CalculationMethod string    `json:"calculation_method"`
}

func toFeeItemResponses(items []fee.FeeItem) []FeeItemResponse {
	out := make([]FeeItemResponse, len(items))
	for i, item := range items {
		out[i] = FeeItemResponse{
			ID:                item.ID,
			Code:              string(item.Code),
			Name:              item.Name,
			CalculationMethod: string(item.CalculationMethod),
		}
	}
	return out
}

