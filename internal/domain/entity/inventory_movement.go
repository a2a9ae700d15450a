package entity

import "time"

// MovementKind tipo de movimiento del libro de stock.
type MovementKind string

// Tipos de movimiento. IN suma; OUT y SALE restan.
const (
	MovementKindIN   MovementKind = "IN"   // entrada
	MovementKindOUT  MovementKind = "OUT"  // salida manual
	MovementKindSALE MovementKind = "SALE" // salida por venta
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindIN, MovementKindOUT, MovementKindSALE:
		return true
	}
	return false
}

// RefTypeSale referencia de movimientos generados por una venta.
const RefTypeSale = "sale"

// Movement entrada inmutable del libro de movimientos. Quantity tiene signo.
// UnitID solo se completa en los registros de auditoría de ventas por unidad;
// esos registros no cuentan para el stock a granel.
type Movement struct {
	ID        string
	Date      time.Time
	Kind      MovementKind
	VariantID string
	UnitID    string
	Quantity  int64
	RefType   string
	RefID     string
	Notes     string
}
