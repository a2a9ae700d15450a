package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Model representa un producto del catálogo (ej. "iPhone 13"). Lo administra el catálogo;
// el motor de stock solo lo lee. TracksUnits indica si sus variantes se controlan por IMEI.
type Model struct {
	ID           string
	Name         string
	CategoryID   string
	CategoryName string
	BrandID      string
	BrandName    string
	TracksUnits  bool
}

// Variant representa una combinación vendible de un modelo (color, capacidad).
// TracksUnits se hereda del modelo y nunca se guarda por variante.
type Variant struct {
	ID            string
	ModelID       string
	ModelName     string
	CategoryID    string
	CategoryName  string
	BrandID       string
	BrandName     string
	TracksUnits   bool
	ColorID       string // opcional
	ColorName     string
	CapacityID    string // opcional
	CapacityLabel string
	SKU           string
	BasePrice     decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
