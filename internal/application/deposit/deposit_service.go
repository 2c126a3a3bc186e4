package deposit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/deposit"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errDepositNotFound = shared.ErrNotFound.WithMessage("Deposit not found")

// DepositService manages the deposit ledger
type DepositService struct {
	deposits deposit.Repository
	assets   asset.Repository
	logger   *zap.Logger
	today    func() time.Time
}

// NewDepositService creates a new DepositService
func NewDepositService(deposits deposit.Repository, assets asset.Repository, logger *zap.Logger) *DepositService {
	return &DepositService{
		deposits: deposits,
		assets:   assets,
		logger:   logger,
		today:    fee.Today,
	}
}

// Create records a deposit for a property. The community is taken from the property.
func (s *DepositService) Create(ctx context.Context, req CreateDepositRequest) (*DepositResponse, error) {
	prop, err := s.assets.FindProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	paidDate := s.today()
	if req.PaidDate != nil {
		paidDate = fee.DateOf(*req.PaidDate)
	}

	d, err := deposit.NewDeposit(prop.CommunityID, prop.ID, req.DepositType, req.Amount, paidDate, req.AutoDeduct, req.Remark)
	if err != nil {
		return nil, err
	}
	if err := s.deposits.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit created",
		zap.String("deposit_id", d.ID.String()),
		zap.String("property_id", prop.ID.String()),
		zap.String("amount", d.Amount.String()))

	resp := ToDepositResponse(d)
	return &resp, nil
}

// List returns deposits matching the filter
func (s *DepositService) List(ctx context.Context, filter deposit.Filter) ([]DepositResponse, error) {
	deposits, err := s.deposits.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]DepositResponse, len(deposits))
	for i := range deposits {
		out[i] = ToDepositResponse(&deposits[i])
	}
	return out, nil
}

// Get returns a single deposit
func (s *DepositService) Get(ctx context.Context, id uuid.UUID) (*DepositResponse, error) {
	d, err := s.deposits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDepositResponse(d)
	return &resp, nil
}

// Deductions returns the deduction history of a deposit
func (s *DepositService) Deductions(ctx context.Context, id uuid.UUID) ([]DeductionResponse, error) {
	if _, err := s.deposits.FindByID(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.deposits.FindDeductions(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]DeductionResponse, len(entries))
	for i, e := range entries {
		out[i] = DeductionResponse{
			ID:            e.ID,
			DepositID:     e.DepositID,
			FeeRecordID:   e.FeeRecordID,
			Amount:        e.Amount,
			DeductionDate: fee.FormatDate(e.DeductionDate),
			Reason:        e.Reason,
			Remark:        e.Remark,
		}
	}
	return out, nil
}

// Deduct draws from a deposit. When a fee record is linked it is
// settled in the same transaction as the deduction.
func (s *DepositService) Deduct(ctx context.Context, id uuid.UUID, req DeductRequest) (*DeductResult, error) {
	d, err := s.deposits.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errDepositNotFound
		}
		return nil, err
	}

	today := s.today()
	entry, err := d.Deduct(req.Amount, req.FeeRecordID, req.Reason, req.Remark, today)
	if err != nil {
		return nil, err
	}

	var settle func(*fee.FeeRecord) error
	if req.FeeRecordID != nil {
		amount := req.Amount
		settle = func(record *fee.FeeRecord) error {
			return record.Pay(fee.Payment{
				PaidAmount: &amount,
				Method:     fee.PaymentDeposit,
				PaidOn:     today,
			})
		}
	}

	if err := s.deposits.ApplyDeduction(ctx, d, entry, settle); err != nil {
		s.logger.Error("Failed to apply deposit deduction",
			zap.String("deposit_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Deposit deducted",
		zap.String("deposit_id", id.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("balance", d.Balance.String()),
		zap.String("status", string(d.Status)))

	return &DeductResult{
		DeductionAmount:  req.Amount,
		RemainingBalance: d.Balance,
		Status:           d.Status,
	}, nil
}

// Refund returns money from a deposit and closes it. A partial refund also
// closes the deposit; the remaining balance is kept on record only.
func (s *DepositService) Refund(ctx context.Context, id uuid.UUID, req RefundRequest) (*RefundResult, error) {
	d, err := s.deposits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.Refund(req.Amount, req.Remark, s.today()); err != nil {
		return nil, err
	}
	if err := s.deposits.Save(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit refunded",
		zap.String("deposit_id", id.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("remaining_balance", d.Balance.String()))

	return &RefundResult{
		RefundAmount:     req.Amount,
		RemainingBalance: d.Balance,
		Status:           d.Status,
	}, nil
}
