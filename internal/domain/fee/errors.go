package fee

import "github.com/propmgmt/backend/internal/domain/shared"

var (
	ErrDuplicatePeriod      = shared.NewDomainError("DUPLICATE_PERIOD", "A fee record already exists for this asset, fee item and period")
	ErrFeeRecordAlreadyPaid = shared.NewDomainError("INVALID_STATE", "Fee record is already paid")
	ErrDuplicateRate        = shared.ErrAlreadyExists.WithMessage("An active rate with this effective date already exists")
	ErrNoRateConfigured     = shared.NewDomainError("NO_RATE_CONFIGURED", "No rate configured for this fee item and asset type")
	ErrBillRunInProgress    = shared.NewDomainError("BILL_RUN_IN_PROGRESS", "A bill run for this period is already in progress")
	ErrInvalidAmount        = shared.NewDomainError("INVALID_INPUT", "Amount must be positive")
)
