package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Items      []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount   *decimal.Decimal  `json:"discount,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// SaleItemRequest línea de venta: {unit_id} para unidades serializadas o {variant_id, quantity} a granel.
// UnitPrice ausente = precio efectivo de la unidad o precio base de la variante.
type SaleItemRequest struct {
	UnitID    string           `json:"unit_id,omitempty" validate:"omitempty,uuid"`
	VariantID string           `json:"variant_id,omitempty" validate:"omitempty,uuid"`
	Quantity  *int64           `json:"quantity,omitempty"` // en líneas por unidad: ausente o 1
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// SaleResponse venta con sus ítems.
type SaleResponse struct {
	ID           string             `json:"id"`
	Date         time.Time          `json:"date"`
	CustomerID   string             `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	Discount     decimal.Decimal    `json:"discount"`
	Total        decimal.Decimal    `json:"total"`
	Notes        string             `json:"notes,omitempty"`
	Items        []SaleItemResponse `json:"items"`
}

// SaleItemResponse línea de venta en la respuesta.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	LineNo    int             `json:"line_no"`
	VariantID string          `json:"variant_id"`
	UnitID    string          `json:"unit_id,omitempty"`
	ModelName string          `json:"model_name,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalesStatsResponse unidades vendidas en el rango (GET /api/sales/stats?range=).
type SalesStatsResponse struct {
	Range  string    `json:"range"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Total  int64     `json:"total"`
	Apple  int64     `json:"apple_phones"`
	Others int64     `json:"others"`
}
