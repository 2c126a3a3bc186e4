package handler

import (
	"time"

	"github.com/google/uuid"
	incomeapp "github.com/propmgmt/backend/internal/application/income"
	"github.com/propmgmt/backend/internal/domain/income"
	"github.com/shopspring/decimal"
)

// RecordIncomeRequest is the body of POST /daily-income
type RecordIncomeRequest struct {
	CommunityID string           `json:"community_id" binding:"required,uuid"`
	PropertyID  string           `json:"property_id" binding:"omitempty,uuid"`
	RecordDate  string           `json:"record_date" binding:"omitempty,datetime=2006-01-02"`
	IncomeType  string           `json:"income_type" binding:"required,max=50"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gte=0"`
	Quantity    int              `json:"quantity" binding:"omitempty,min=1"`
	UnitPrice   *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
	Description string           `json:"description" binding:"max=500"`
	Collector   string           `json:"collector" binding:"max=50"`
}

func (r RecordIncomeRequest) toApp() incomeapp.RecordRequest {
	req := incomeapp.RecordRequest{
		CommunityID: uuid.MustParse(r.CommunityID),
		RecordDate:  dateOrZero(r.RecordDate),
		IncomeType:  r.IncomeType,
		Amount:      r.Amount,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Description: r.Description,
		Collector:   r.Collector,
	}
	req.PropertyID, _ = parseOptionalUUID(r.PropertyID)
	return req
}

// AccessCardRequest is the body of POST /daily-income/access-card
type AccessCardRequest struct {
	CommunityID string           `json:"community_id" binding:"required,uuid"`
	PropertyID  string           `json:"property_id" binding:"omitempty,uuid"`
	RecordDate  string           `json:"record_date" binding:"omitempty,datetime=2006-01-02"`
	Count       int              `json:"count" binding:"omitempty,min=1,max=100"`
	UnitPrice   *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
	Collector   string           `json:"collector" binding:"max=50"`
	Remark      string           `json:"remark" binding:"max=200"`
}

func (r AccessCardRequest) toApp() incomeapp.AccessCardRequest {
	req := incomeapp.AccessCardRequest{
		CommunityID: uuid.MustParse(r.CommunityID),
		RecordDate:  dateOrZero(r.RecordDate),
		Count:       r.Count,
		UnitPrice:   r.UnitPrice,
		Collector:   r.Collector,
		Remark:      r.Remark,
	}
	req.PropertyID, _ = parseOptionalUUID(r.PropertyID)
	return req
}

// FireWaterRequest is the body of POST /daily-income/fire-water
type FireWaterRequest struct {
	CommunityID string           `json:"community_id" binding:"required,uuid"`
	PropertyID  string           `json:"property_id" binding:"omitempty,uuid"`
	RecordDate  string           `json:"record_date" binding:"omitempty,datetime=2006-01-02"`
	UnitPrice   *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
	Collector   string           `json:"collector" binding:"max=50"`
	Remark      string           `json:"remark" binding:"max=200"`
}

func (r FireWaterRequest) toApp() incomeapp.FireWaterRequest {
	req := incomeapp.FireWaterRequest{
		CommunityID: uuid.MustParse(r.CommunityID),
		RecordDate:  dateOrZero(r.RecordDate),
		UnitPrice:   r.UnitPrice,
		Collector:   r.Collector,
		Remark:      r.Remark,
	}
	req.PropertyID, _ = parseOptionalUUID(r.PropertyID)
	return req
}

// ListIncomeQuery holds the query parameters of GET /daily-income
type ListIncomeQuery struct {
	CommunityID string `form:"community_id" binding:"omitempty,uuid"`
	StartDate   string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	IncomeType  string `form:"income_type" binding:"omitempty,max=50"`
}

func (q ListIncomeQuery) toFilter() income.Filter {
	f := income.Filter{IncomeType: q.IncomeType}
	f.CommunityID, _ = parseOptionalUUID(q.CommunityID)
	f.StartDate, _ = parseOptionalDate(q.StartDate)
	f.EndDate, _ = parseOptionalDate(q.EndDate)
	return f
}

// dateOrZero leaves the default to the service when no date was sent
func dateOrZero(raw string) time.Time {
	d, _ := parseOptionalDate(raw)
	if d == nil {
		return time.Time{}
	}
	return *d
}
