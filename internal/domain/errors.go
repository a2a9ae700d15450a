package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = fmt.Errorf("stock insuficiente: %w", ErrConflict)
)

// Errores específicos del motor de stock y ventas. Todos envuelven a un sentinel para errors.Is.
var (
	ErrVariantNotFound    = fmt.Errorf("variante no encontrada: %w", ErrNotFound)
	ErrUnitNotFound       = fmt.Errorf("unidad no encontrada: %w", ErrNotFound)
	ErrCustomerNotFound   = fmt.Errorf("cliente no encontrado: %w", ErrNotFound)
	ErrSaleNotFound       = fmt.Errorf("venta no encontrada: %w", ErrNotFound)
	ErrModelNotFound      = fmt.Errorf("modelo no encontrado: %w", ErrNotFound)
	ErrUnitUnavailable    = fmt.Errorf("la unidad no está en stock: %w", ErrConflict)
	ErrUnitSold           = fmt.Errorf("la unidad ya fue vendida: %w", ErrConflict)
	ErrUnitReferenced     = fmt.Errorf("la unidad tiene movimientos o ventas asociadas: %w", ErrConflict)
	ErrDuplicateIMEI      = fmt.Errorf("ya existe una unidad con ese IMEI: %w", ErrDuplicate)
	ErrConcurrentUpdate   = fmt.Errorf("operación concurrente, reintente: %w", ErrConflict)
	ErrTrackedVariant     = fmt.Errorf("la variante se controla por unidad (IMEI): %w", ErrInvalidInput)
	ErrUntrackedVariant   = fmt.Errorf("la variante no se controla por unidad: %w", ErrInvalidInput)
	ErrDiscountOverTotal  = fmt.Errorf("el descuento supera el subtotal: %w", ErrInvalidInput)
	ErrInvalidBattery     = fmt.Errorf("batería inválida (0 a 100, obligatoria en usados): %w", ErrInvalidInput)
	ErrInvalidRange       = fmt.Errorf("rango inválido (hoy, ayer, semana, mes): %w", ErrInvalidInput)
	ErrEmptySale          = fmt.Errorf("la venta debe tener al menos un ítem: %w", ErrInvalidInput)
	ErrInvalidSaleLine    = fmt.Errorf("línea de venta inválida: %w", ErrInvalidInput)
	ErrInvalidTransition  = fmt.Errorf("transición de estado no permitida: %w", ErrInvalidInput)
	ErrIMEIRequired       = fmt.Errorf("el IMEI es obligatorio para esta variante: %w", ErrInvalidInput)
	ErrZeroQuantity       = fmt.Errorf("la cantidad no puede ser cero: %w", ErrInvalidInput)
	ErrNegativeAmount     = fmt.Errorf("precios y descuentos no pueden ser negativos: %w", ErrInvalidInput)
	ErrAmountScale        = fmt.Errorf("los importes admiten como máximo 2 decimales: %w", ErrInvalidInput)
	ErrAmountTooLarge     = fmt.Errorf("importe fuera de rango: %w", ErrInvalidInput)
	ErrQuantityOutOfRange = fmt.Errorf("cantidad fuera de rango: %w", ErrInvalidInput)
	ErrInvalidID          = fmt.Errorf("identificador inválido: %w", ErrInvalidInput)
)
