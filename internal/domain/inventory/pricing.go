package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
)

// maxAmount tope de NUMERIC(14, 2).
var maxAmount = decimal.New(1, 12)

// ValidateAmount verifica un importe de dinero: no negativo, a lo sumo 2 decimales y
// dentro del rango que puede persistirse. Un importe con más decimales se redondearía
// en la BD columna por columna y el total dejaría de cuadrar con las líneas.
func ValidateAmount(a decimal.Decimal) error {
	if a.IsNegative() {
		return domain.ErrNegativeAmount
	}
	if !a.Equal(a.Round(2)) {
		return domain.ErrAmountScale
	}
	if a.GreaterThanOrEqual(maxAmount) {
		return domain.ErrAmountTooLarge
	}
	return nil
}

// EffectivePrice precio de venta de una unidad: el override si existe, si no el precio base de la variante.
func EffectivePrice(override *decimal.Decimal, base decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return base
}

// Line importe de una línea de venta antes del descuento global.
type Line struct {
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Quantity  int64
}

// Net devuelve (precio − descuento) × cantidad.
func (l Line) Net() decimal.Decimal {
	return l.UnitPrice.Sub(l.Discount).Mul(decimal.NewFromInt(l.Quantity))
}

// Validate verifica montos no negativos y descuento de línea no mayor al precio.
func (l Line) Validate() error {
	if err := ValidateAmount(l.UnitPrice); err != nil {
		return err
	}
	if err := ValidateAmount(l.Discount); err != nil {
		return err
	}
	if l.Discount.GreaterThan(l.UnitPrice) {
		return domain.ErrInvalidSaleLine
	}
	if l.Quantity <= 0 {
		return domain.ErrInvalidSaleLine
	}
	return nil
}

// SaleTotal calcula Σ líneas − descuento global. Devuelve el subtotal y el total.
// El descuento global no puede superar el subtotal.
func SaleTotal(lines []Line, discount decimal.Decimal) (subtotal, total decimal.Decimal, err error) {
	if err := ValidateAmount(discount); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	subtotal = decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Net())
	}
	if discount.GreaterThan(subtotal) {
		return subtotal, decimal.Zero, domain.ErrDiscountOverTotal
	}
	if subtotal.GreaterThanOrEqual(maxAmount) {
		return subtotal, decimal.Zero, domain.ErrAmountTooLarge
	}
	return subtotal, subtotal.Sub(discount), nil
}
