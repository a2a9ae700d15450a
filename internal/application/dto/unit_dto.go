package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest body para POST /api/units.
type CreateUnitRequest struct {
	VariantID     string           `json:"variant_id" validate:"required,uuid"`
	IMEI          string           `json:"imei,omitempty"`
	BatteryPct    *int             `json:"battery_pct,omitempty" validate:"omitempty,min=0,max=100"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	Condition     string           `json:"condition,omitempty" validate:"omitempty,oneof=NEW USED"`
	Notes         string           `json:"notes,omitempty"`
}

// UpdateUnitRequest body para PUT /api/units/:id. Solo se aplican los campos presentes.
// ClearPriceOverride vuelve la unidad al precio base de la variante; no se combina con PriceOverride.
type UpdateUnitRequest struct {
	BatteryPct         *int             `json:"battery_pct,omitempty" validate:"omitempty,min=0,max=100"`
	PriceOverride      *decimal.Decimal `json:"price_override,omitempty"`
	ClearPriceOverride bool             `json:"clear_price_override,omitempty"`
	Condition          *string          `json:"condition,omitempty" validate:"omitempty,oneof=NEW USED"`
	StockState         *string          `json:"stock_state,omitempty" validate:"omitempty,oneof=IN_STOCK SOLD RESERVED IN_REPAIR"`
	Notes              *string          `json:"notes,omitempty"`
}

// UnitResponse unidad en respuestas.
type UnitResponse struct {
	ID            string           `json:"id"`
	VariantID     string           `json:"variant_id"`
	IMEI          string           `json:"imei,omitempty"`
	BatteryPct    *int             `json:"battery_pct,omitempty"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	StockState    string           `json:"stock_state"`
	Condition     string           `json:"condition"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
