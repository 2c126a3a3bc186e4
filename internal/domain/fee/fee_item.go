package fee

import "github.com/google/uuid"

// ItemCode identifies the built-in fee items the engine bills
type ItemCode string

const (
	ItemPropertyFee    ItemCode = "PROPERTY_FEE"
	ItemParkingFee     ItemCode = "PARKING_FEE"
	ItemWaterFee       ItemCode = "WATER_FEE"
	ItemElectricityFee ItemCode = "ELECTRICITY_FEE"
)

// CalculationMethod describes how a fee item's amount is derived
type CalculationMethod string

const (
	MethodArea  CalculationMethod = "AREA"
	MethodFixed CalculationMethod = "FIXED"
	MethodUsage CalculationMethod = "USAGE"
)

// FeeItem is a chargeable line in the price list
type FeeItem struct {
	ID                uuid.UUID
	Code              ItemCode
	Name              string
	CalculationMethod CalculationMethod
}
