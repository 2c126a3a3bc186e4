package fee

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MeterType distinguishes water and electricity meters
type MeterType string

const (
	MeterWater       MeterType = "water"
	MeterElectricity MeterType = "electricity"
)

// ReadingDueDays is how long after the reading date the generated fee falls due
const ReadingDueDays = 30

// MeterReading is one periodic meter read for a property
type MeterReading struct {
	shared.BaseEntity
	PropertyID      uuid.UUID
	MeterType       MeterType
	ReadingDate     time.Time
	PreviousReading decimal.Decimal
	CurrentReading  decimal.Decimal
	Usage           decimal.Decimal
	UnitPrice       decimal.Decimal
	Amount          decimal.Decimal
	ReadingType     string
	PrepaidBalance  decimal.Decimal
	Reader          string
	Remark          string
	FeeRecordID     *uuid.UUID
}

// NewMeterReading records a reading and prices its usage. Usage is the
// positive difference to the previous reading; a meter reset yields zero.
func NewMeterReading(propertyID uuid.UUID, meterType MeterType, readingDate time.Time, previous, current, unitPrice decimal.Decimal) (*MeterReading, error) {
	if propertyID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("property_id is required")
	}
	if current.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("current_reading cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("unit_price cannot be negative")
	}

	usage := decimal.Max(decimal.Zero, current.Sub(previous))
	return &MeterReading{
		BaseEntity:      shared.NewBaseEntity(),
		PropertyID:      propertyID,
		MeterType:       meterType,
		ReadingDate:     DateOf(readingDate),
		PreviousReading: previous,
		CurrentReading:  current,
		Usage:           usage,
		UnitPrice:       unitPrice,
		Amount:          usage.Mul(unitPrice),
		ReadingType:     "monthly",
		PrepaidBalance:  decimal.Zero,
	}, nil
}

// DueDate returns when the generated fee falls due
func (m *MeterReading) DueDate() time.Time {
	return m.ReadingDate.AddDate(0, 0, ReadingDueDays)
}

// IsChargeable reports whether the reading produces a fee
func (m *MeterReading) IsChargeable() bool {
	return m.Amount.IsPositive()
}
