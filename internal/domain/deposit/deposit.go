// Package deposit models escrowed owner deposits and the deductions and
// refunds drawn against them. Balances only ever decrease.
package deposit

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a deposit
type Status string

const (
	StatusActive   Status = "active"
	StatusDepleted Status = "depleted"
	StatusRefunded Status = "refunded"
)

// IsTerminal reports whether no further movement is allowed
func (s Status) IsTerminal() bool {
	return s == StatusDepleted || s == StatusRefunded
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusDepleted || s == StatusRefunded
}

var (
	ErrExceedsBalance = shared.NewDomainError("EXCEEDS_BALANCE", "Refund amount exceeds deposit balance")
	ErrNotActive      = shared.NewDomainError("DEPOSIT_NOT_ACTIVE", "Deposit is no longer active")
	ErrInvalidAmount  = shared.NewDomainError("INVALID_INPUT", "Amount must be positive")
)

// Deposit is an escrowed balance tied to a property
type Deposit struct {
	shared.BaseAggregateRoot
	CommunityID uuid.UUID
	PropertyID  uuid.UUID
	DepositType string
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	Status      Status
	PaidDate    time.Time
	RefundDate  *time.Time
	AutoDeduct  bool
	Remark      string
}

// NewDeposit creates an active deposit whose balance equals the paid amount
func NewDeposit(communityID, propertyID uuid.UUID, depositType string, amount decimal.Decimal, paidDate time.Time, autoDeduct bool, remark string) (*Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(depositType) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("deposit_type is required")
	}
	return &Deposit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CommunityID:       communityID,
		PropertyID:        propertyID,
		DepositType:       depositType,
		Amount:            amount,
		Balance:           amount,
		Status:            StatusActive,
		PaidDate:          paidDate,
		AutoDeduct:        autoDeduct,
		Remark:            remark,
	}, nil
}

// Deduct draws amount from the balance. The deposit becomes depleted once
// the balance reaches zero. Returns the deduction entry to persist.
//
// A depleted deposit has nothing left to draw, so any further deduction
// fails as insufficient balance. Only a refunded deposit is not active.
func (d *Deposit) Deduct(amount decimal.Decimal, feeRecordID *uuid.UUID, reason, remark string, on time.Time) (*Deduction, error) {
	if d.Status == StatusRefunded {
		return nil, ErrNotActive
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if d.Status == StatusDepleted || amount.GreaterThan(d.Balance) {
		return nil, shared.ErrInsufficientBalance.WithMessage(
			fmt.Sprintf("Insufficient deposit balance, current balance: %s", d.Balance.StringFixed(2)))
	}

	d.Balance = d.Balance.Sub(amount)
	if !d.Balance.IsPositive() {
		d.Status = StatusDepleted
	}
	d.IncrementVersion()
	d.Touch()

	return &Deduction{
		ID:            uuid.New(),
		DepositID:     d.ID,
		FeeRecordID:   feeRecordID,
		Amount:        amount,
		DeductionDate: on,
		Reason:        reason,
		Remark:        remark,
		CreatedAt:     time.Now(),
	}, nil
}

// Refund returns amount to the payer and closes the deposit.
//
// A refund smaller than the balance still moves the deposit to refunded;
// the remainder stays on the record but can no longer be drawn. Whether a
// partial refund should keep the deposit active is an open product question.
func (d *Deposit) Refund(amount decimal.Decimal, remark string, on time.Time) error {
	if d.Status.IsTerminal() {
		return ErrNotActive
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(d.Balance) {
		return ErrExceedsBalance.WithMessage(
			fmt.Sprintf("Refund amount cannot exceed balance, current balance: %s", d.Balance.StringFixed(2)))
	}

	d.Balance = d.Balance.Sub(amount)
	d.Status = StatusRefunded
	d.RefundDate = &on
	if remark == "" {
		remark = fmt.Sprintf("refunded %s", amount.StringFixed(2))
	}
	if d.Remark == "" {
		d.Remark = remark
	} else {
		d.Remark = d.Remark + "; " + remark
	}
	d.IncrementVersion()
	d.Touch()
	return nil
}

// Deduction is one append-only draw against a deposit
type Deduction struct {
	ID            uuid.UUID
	DepositID     uuid.UUID
	FeeRecordID   *uuid.UUID
	Amount        decimal.Decimal
	DeductionDate time.Time
	Reason        string
	Remark        string
	CreatedAt     time.Time
}
