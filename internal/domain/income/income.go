// Package income records ad-hoc one-off charges collected at the front desk.
package income

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Built-in income types
const (
	TypeAccessCard = "access_card"
	TypeFireWater  = "fire_water"
)

// Record is one append-only daily income entry
type Record struct {
	shared.BaseEntity
	CommunityID uuid.UUID
	PropertyID  *uuid.UUID
	RecordDate  time.Time
	IncomeType  string
	Amount      decimal.Decimal
	Quantity    int
	UnitPrice   *decimal.Decimal
	Description string
	Collector   string
}

// NewRecordParams carries the inputs of a daily income entry
type NewRecordParams struct {
	CommunityID uuid.UUID
	PropertyID  *uuid.UUID
	RecordDate  time.Time
	IncomeType  string
	Amount      *decimal.Decimal
	Quantity    int
	UnitPrice   *decimal.Decimal
	Description string
	Collector   string
}

// NewRecord creates an income entry. When a unit price is given the amount
// is unit price times quantity, otherwise the explicit amount is used.
func NewRecord(p NewRecordParams) (*Record, error) {
	if p.CommunityID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("community_id is required")
	}
	if strings.TrimSpace(p.IncomeType) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("income_type is required")
	}
	qty := p.Quantity
	if qty <= 0 {
		qty = 1
	}

	var amount decimal.Decimal
	switch {
	case p.UnitPrice != nil:
		amount = p.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	case p.Amount != nil:
		amount = *p.Amount
	default:
		return nil, shared.ErrInvalidInput.WithMessage("amount or unit_price is required")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("amount must be positive")
	}

	return &Record{
		BaseEntity:  shared.NewBaseEntity(),
		CommunityID: p.CommunityID,
		PropertyID:  p.PropertyID,
		RecordDate:  time.Date(p.RecordDate.Year(), p.RecordDate.Month(), p.RecordDate.Day(), 0, 0, 0, 0, time.UTC),
		IncomeType:  p.IncomeType,
		Amount:      amount,
		Quantity:    qty,
		UnitPrice:   p.UnitPrice,
		Description: p.Description,
		Collector:   p.Collector,
	}, nil
}

// AccessCardDescription renders the description of an access card sale
func AccessCardDescription(count int, unitPrice decimal.Decimal, unitLabel, remark string) string {
	total := unitPrice.Mul(decimal.NewFromInt(int64(count)))
	desc := fmt.Sprintf("Access card fee %d × %s = %s", count, unitPrice.String(), total.String())
	return decorate(desc, unitLabel, remark)
}

// FireWaterDescription renders the description of a fire hydrant water test fee
func FireWaterDescription(unitPrice decimal.Decimal, unitLabel, remark string) string {
	return decorate(fmt.Sprintf("Fire water test fee %s", unitPrice.String()), unitLabel, remark)
}

func decorate(desc, unitLabel, remark string) string {
	if unitLabel != "" {
		desc += " (" + unitLabel + ")"
	}
	if remark != "" {
		desc += " - " + remark
	}
	return desc
}

// Filter narrows income listings
type Filter struct {
	CommunityID *uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
	IncomeType  string
}

// TypeBreakdown aggregates one income type
type TypeBreakdown struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Statistics summarises a set of income records
type Statistics struct {
	TotalRecords int                      `json:"total_records"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	ByType       map[string]TypeBreakdown `json:"type_breakdown"`
}

// Summarize totals records overall and per income type
func Summarize(records []Record) Statistics {
	stats := Statistics{TotalAmount: decimal.Zero, ByType: make(map[string]TypeBreakdown)}
	for _, r := range records {
		stats.TotalRecords++
		stats.TotalAmount = stats.TotalAmount.Add(r.Amount)
		b := stats.ByType[r.IncomeType]
		b.Count++
		b.Amount = b.Amount.Add(r.Amount)
		stats.ByType[r.IncomeType] = b
	}
	return stats
}
