package deposit

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/deposit"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/shopspring/decimal"
)

// CreateDepositRequest registers a deposit paid for a property
type CreateDepositRequest struct {
	PropertyID  uuid.UUID
	DepositType string
	Amount      decimal.Decimal
	PaidDate    *time.Time
	AutoDeduct  bool
	Remark      string
}

// DeductRequest draws from a deposit, optionally settling a fee record
type DeductRequest struct {
	Amount      decimal.Decimal
	FeeRecordID *uuid.UUID
	Reason      string
	Remark      string
}

// RefundRequest returns money from a deposit
type RefundRequest struct {
	Amount decimal.Decimal
	Remark string
}

// DepositResponse is the API view of a deposit
type DepositResponse struct {
	ID          uuid.UUID       `json:"id"`
	CommunityID uuid.UUID       `json:"community_id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	DepositType string          `json:"deposit_type"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Status      deposit.Status  `json:"status"`
	PaidDate    string          `json:"paid_date"`
	RefundDate  *string         `json:"refund_date,omitempty"`
	AutoDeduct  bool            `json:"auto_deduct"`
	Remark      string          `json:"remark,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToDepositResponse converts a domain deposit to its API view
func ToDepositResponse(d *deposit.Deposit) DepositResponse {
	resp := DepositResponse{
		ID:          d.ID,
		CommunityID: d.CommunityID,
		PropertyID:  d.PropertyID,
		DepositType: d.DepositType,
		Amount:      d.Amount,
		Balance:     d.Balance,
		Status:      d.Status,
		PaidDate:    fee.FormatDate(d.PaidDate),
		AutoDeduct:  d.AutoDeduct,
		Remark:      d.Remark,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.RefundDate != nil {
		s := fee.FormatDate(*d.RefundDate)
		resp.RefundDate = &s
	}
	return resp
}

// DeductionResponse is the API view of a deduction entry
type DeductionResponse struct {
	ID            uuid.UUID       `json:"id"`
	DepositID     uuid.UUID       `json:"deposit_id"`
	FeeRecordID   *uuid.UUID      `json:"fee_record_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DeductionDate string          `json:"deduction_date"`
	Reason        string          `json:"reason,omitempty"`
	Remark        string          `json:"remark,omitempty"`
}

// DeductResult reports the deposit state after a deduction
type DeductResult struct {
	DeductionAmount  decimal.Decimal `json:"deduction_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           deposit.Status  `json:"status"`
}

// RefundResult reports the deposit state after a refund
type RefundResult struct {
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           deposit.Status  `json:"status"`
}
