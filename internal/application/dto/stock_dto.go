package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantStockDTO stock actual de una variante. New y Used solo aplican a variantes por unidad.
type VariantStockDTO struct {
	VariantID   string `json:"variant_id"`
	TracksUnits bool   `json:"tracks_units"`
	Stock       int64  `json:"stock"`
	New         *int64 `json:"new,omitempty"`
	Used        *int64 `json:"used,omitempty"`
}

// ModelStockDTO stock agregado de un modelo.
type ModelStockDTO struct {
	ModelID   string `json:"model_id"`
	ModelName string `json:"model_name,omitempty"`
	Stock     int64  `json:"stock"`
}

// InventoryFilter filtros de GET /api/inventory y /api/products/table.
type InventoryFilter struct {
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	BrandID    string `query:"brand_id" validate:"omitempty,uuid"`
}

// InventoryRowDTO fila del listado de inventario: una por unidad en stock (modelos por IMEI)
// o una por variante con stock positivo (modelos a granel).
type InventoryRowDTO struct {
	ModelID        string           `json:"model_id"`
	ModelName      string           `json:"model_name"`
	VariantID      string           `json:"variant_id"`
	ColorName      string           `json:"color_name,omitempty"`
	CapacityLabel  string           `json:"capacity_label,omitempty"`
	UnitID         string           `json:"unit_id,omitempty"`
	IMEI           string           `json:"imei,omitempty"`
	BatteryPct     *int             `json:"battery_pct,omitempty"`
	Condition      string           `json:"condition,omitempty"`
	StockState     string           `json:"stock_state,omitempty"`
	BasePrice      decimal.Decimal  `json:"base_price"`
	PriceOverride  *decimal.Decimal `json:"price_override,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Stock          *int64           `json:"stock,omitempty"` // solo a granel
	TracksUnits    bool             `json:"tracks_units"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ModelTableDTO modelo con el stock de cada variante (tabla de productos).
type ModelTableDTO struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	CategoryID   string            `json:"category_id"`
	CategoryName string            `json:"category_name"`
	TracksUnits  bool              `json:"tracks_units"`
	Variants     []VariantTableDTO `json:"variants"`
}

// VariantTableDTO variante dentro de la tabla de productos.
type VariantTableDTO struct {
	ID            string `json:"id"`
	ColorName     string `json:"color_name,omitempty"`
	CapacityLabel string `json:"capacity_label,omitempty"`
	Stock         int64  `json:"stock"`
	New           *int64 `json:"new,omitempty"`
	Used          *int64 `json:"used,omitempty"`
}
