package fee

import (
	"fmt"
	"time"

	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/shopspring/decimal"
)

// AccrualInput holds everything needed to price one asset for one fee item
type AccrualInput struct {
	Kind      asset.Kind
	Area      decimal.Decimal // ignored for parking
	UnitPrice decimal.Decimal
	Start     time.Time
	Cutoff    time.Time
	PaidTotal decimal.Decimal
}

// Accrual is the priced result for one asset and fee item
type Accrual struct {
	Months      int
	Gross       decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
}

// IsDue reports whether at least one whole month has elapsed
func (a Accrual) IsDue() bool {
	return a.Months > 0
}

// ComputeAccrual prices whole elapsed months and nets off the paid total.
// Outstanding never goes below zero.
func ComputeAccrual(in AccrualInput) Accrual {
	months := MonthsBetween(in.Start, in.Cutoff)
	acc := Accrual{Months: months, Gross: decimal.Zero, Paid: in.PaidTotal, Outstanding: decimal.Zero}
	if months <= 0 {
		return acc
	}

	perMonth := in.UnitPrice
	if in.Kind == asset.KindProperty {
		perMonth = in.Area.Mul(in.UnitPrice)
	}
	acc.Gross = perMonth.Mul(decimal.NewFromInt(int64(months)))
	acc.Outstanding = decimal.Max(decimal.Zero, acc.Gross.Sub(in.PaidTotal))
	return acc
}

// MonthlyCharge prices a single month for fixed monthly billing
func MonthlyCharge(kind asset.Kind, area, unitPrice decimal.Decimal) decimal.Decimal {
	if kind == asset.KindProperty {
		return area.Mul(unitPrice)
	}
	return unitPrice
}

// Derivation renders the human-readable pricing formula
func (a Accrual) Derivation(in AccrualInput) string {
	if in.Kind == asset.KindProperty {
		return fmt.Sprintf("%s㎡ × %s/㎡/month × %d months = %s, paid %s",
			in.Area.String(), in.UnitPrice.String(), a.Months, a.Gross.String(), a.Paid.String())
	}
	return fmt.Sprintf("%s/month × %d months = %s, paid %s",
		in.UnitPrice.String(), a.Months, a.Gross.String(), a.Paid.String())
}
