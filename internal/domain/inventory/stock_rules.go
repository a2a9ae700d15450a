package inventory

import (
	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
)

// MaxMovementQuantity magnitud máxima de un movimiento. Acota el delta para que la suma
// del libro no desborde int64.
const MaxMovementQuantity int64 = 1_000_000_000

// NormalizeQuantity aplica la convención de signo del libro: IN suma |q|, OUT y SALE restan |q|.
// Acepta la cantidad con signo o como magnitud; ambas se normalizan igual.
func NormalizeQuantity(kind entity.MovementKind, q int64) (int64, error) {
	if q == 0 {
		return 0, domain.ErrZeroQuantity
	}
	if q < -MaxMovementQuantity || q > MaxMovementQuantity {
		return 0, domain.ErrQuantityOutOfRange
	}
	if q < 0 {
		q = -q
	}
	switch kind {
	case entity.MovementKindIN:
		return q, nil
	case entity.MovementKindOUT, entity.MovementKindSALE:
		return -q, nil
	}
	return 0, domain.ErrInvalidInput
}

// CanApply indica si un delta puede aplicarse sobre el stock actual sin dejarlo negativo.
// delta debe venir de NormalizeQuantity; se compara contra -delta para no sumar.
func CanApply(current, delta int64) bool {
	return current >= -delta
}

// ValidateBattery verifica la batería según la condición: en usados es obligatoria y
// siempre que esté presente debe estar en [0, 100].
func ValidateBattery(cond entity.Condition, battery *int) error {
	if battery != nil && (*battery < 0 || *battery > 100) {
		return domain.ErrInvalidBattery
	}
	if cond == entity.ConditionUsed && battery == nil {
		return domain.ErrInvalidBattery
	}
	return nil
}

// ValidateTransition valida un cambio de estado pedido por edición (no por venta).
// SOLD solo se alcanza confirmando una venta y una unidad vendida no vuelve atrás.
func ValidateTransition(from, to entity.StockState) error {
	if !to.Valid() {
		return domain.ErrInvalidTransition
	}
	if from == to {
		return nil
	}
	if from == entity.StockStateSold {
		return domain.ErrUnitSold
	}
	if to == entity.StockStateSold {
		return domain.ErrInvalidTransition
	}
	return nil
}
