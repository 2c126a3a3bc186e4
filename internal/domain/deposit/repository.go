package deposit

import (
	"context"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/fee"
)

// Filter narrows deposit listings
type Filter struct {
	PropertyID  *uuid.UUID
	OwnerID     *uuid.UUID
	DepositType string
	Status      Status
}

// Repository persists deposits and their deductions
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Deposit, error)
	FindAll(ctx context.Context, filter Filter) ([]Deposit, error)
	FindDeductions(ctx context.Context, depositID uuid.UUID) ([]Deduction, error)
	Create(ctx context.Context, d *Deposit) error

	// Save updates balance, status and remark under an optimistic version check
	Save(ctx context.Context, d *Deposit) error

	// ApplyDeduction atomically inserts the deduction, saves the deposit and,
	// when settle is non-nil, marks the linked fee record paid. settle receives
	// the fee record loaded inside the transaction; any error rolls everything back.
	ApplyDeduction(ctx context.Context, d *Deposit, deduction *Deduction, settle func(record *fee.FeeRecord) error) error
}
