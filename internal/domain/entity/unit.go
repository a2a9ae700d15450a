package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockState estado físico de una unidad serializada.
type StockState string

// Estados de una unidad. IN_STOCK -> SOLD es irreversible desde el motor.
const (
	StockStateInStock  StockState = "IN_STOCK"
	StockStateSold     StockState = "SOLD"
	StockStateReserved StockState = "RESERVED"
	StockStateInRepair StockState = "IN_REPAIR"
)

// Valid indica si el estado es uno de los conocidos.
func (s StockState) Valid() bool {
	switch s {
	case StockStateInStock, StockStateSold, StockStateReserved, StockStateInRepair:
		return true
	}
	return false
}

// Condition condición comercial de la unidad.
type Condition string

const (
	ConditionNew  Condition = "NEW"
	ConditionUsed Condition = "USED"
)

// Valid indica si la condición es conocida.
func (c Condition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed
}

// Unit representa un ítem físico identificable (normalmente por IMEI).
type Unit struct {
	ID            string
	VariantID     string
	IMEI          string // vacío = sin IMEI; único cuando está presente
	BatteryPct    *int   // obligatorio en usados, 0..100
	PriceOverride *decimal.Decimal
	StockState    StockState
	Condition     Condition
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
