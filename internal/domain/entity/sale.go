package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta confirmada. Total = Σ((precio − desc. línea) × cant) − Discount.
type Sale struct {
	ID           string
	Date         time.Time
	CustomerID   string // opcional
	CustomerName string // solo lectura
	Discount     decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	Items        []*SaleItem
}

// SaleItem línea de una venta: por unidad (UnitID, cantidad 1) o a granel (cantidad > 0).
type SaleItem struct {
	ID        string
	SaleID    string
	LineNo    int // posición en la venta, desde 1
	VariantID string
	UnitID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	ModelName string // solo lectura
}

// SoldLine cantidad vendida en una línea junto con la marca y categoría de su modelo (estadísticas).
type SoldLine struct {
	Quantity     int64
	BrandName    string
	CategoryName string
}
