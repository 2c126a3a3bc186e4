package handler

import (
	"github.com/google/uuid"
	depositapp "github.com/propmgmt/backend/internal/application/deposit"
	"github.com/propmgmt/backend/internal/domain/deposit"
	"github.com/shopspring/decimal"
)

// CreateDepositRequest is the body of POST /deposits
type CreateDepositRequest struct {
	PropertyID  string          `json:"property_id" binding:"required,uuid"`
	DepositType string          `json:"deposit_type" binding:"required,max=50"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	PaidDate    string          `json:"paid_date" binding:"omitempty,datetime=2006-01-02"`
	AutoDeduct  bool            `json:"auto_deduct"`
	Remark      string          `json:"remark" binding:"max=500"`
}

func (r CreateDepositRequest) toApp() depositapp.CreateDepositRequest {
	req := depositapp.CreateDepositRequest{
		PropertyID:  uuid.MustParse(r.PropertyID),
		DepositType: r.DepositType,
		Amount:      r.Amount,
		AutoDeduct:  r.AutoDeduct,
		Remark:      r.Remark,
	}
	req.PaidDate, _ = parseOptionalDate(r.PaidDate)
	return req
}

// ListDepositsQuery holds the query parameters of GET /deposits
type ListDepositsQuery struct {
	PropertyID  string `form:"property_id" binding:"omitempty,uuid"`
	OwnerID     string `form:"owner_id" binding:"omitempty,uuid"`
	DepositType string `form:"deposit_type" binding:"omitempty,max=50"`
	Status      string `form:"status" binding:"omitempty,oneof=active depleted refunded"`
}

func (q ListDepositsQuery) toFilter() deposit.Filter {
	f := deposit.Filter{DepositType: q.DepositType, Status: deposit.Status(q.Status)}
	f.PropertyID, _ = parseOptionalUUID(q.PropertyID)
	f.OwnerID, _ = parseOptionalUUID(q.OwnerID)
	return f
}

// DeductRequest is the body of POST /deposits/:id/deduct
type DeductRequest struct {
	DeductionAmount decimal.Decimal `json:"deduction_amount" binding:"gt=0"`
	FeeRecordID     string          `json:"fee_record_id" binding:"omitempty,uuid"`
	Reason          string          `json:"reason" binding:"max=200"`
	Remark          string          `json:"remark" binding:"max=500"`
}

func (r DeductRequest) toApp() depositapp.DeductRequest {
	req := depositapp.DeductRequest{
		Amount: r.DeductionAmount,
		Reason: r.Reason,
		Remark: r.Remark,
	}
	req.FeeRecordID, _ = parseOptionalUUID(r.FeeRecordID)
	return req
}

// RefundRequest is the body of POST /deposits/:id/refund
type RefundRequest struct {
	RefundAmount decimal.Decimal `json:"refund_amount" binding:"gt=0"`
	Remark       string          `json:"remark" binding:"max=500"`
}

func (r RefundRequest) toApp() depositapp.RefundRequest {
	return depositapp.RefundRequest{Amount: r.RefundAmount, Remark: r.Remark}
}
