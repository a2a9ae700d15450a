package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

// StockSource origen del stock de un grupo de variantes del mismo modo de control.
// Se elige una vez a partir del flag del modelo; los consumidores no vuelven a preguntarlo.
type StockSource interface {
	// Count stock actual por variante, fuera de transacción.
	Count(ctx context.Context, variantIDs []string) (map[string]entity.StockCount, error)
	// Consume descuenta una línea de venta usando los repositorios de la transacción de la venta.
	Consume(ctx context.Context, repos repository.TxRepos, line SaleLine) (*Consumption, error)
}

// SaleLine línea de venta ya validada en estructura. UnitID para ventas por unidad,
// VariantID y Quantity (magnitud) para ventas a granel.
type SaleLine struct {
	SaleID    string
	UnitID    string
	VariantID string
	Quantity  int64
	Date      time.Time
}

// Consumption lo que salió del stock: la variante, la unidad vendida (nil a granel) y la cantidad.
type Consumption struct {
	Variant  *entity.Variant
	Unit     *entity.Unit
	Quantity int64
}

// StockSources par de orígenes compartido por las consultas de stock y la venta.
type StockSources struct {
	units  StockSource
	ledger StockSource
}

// NewStockSources construye ambos orígenes. Los repositorios se usan solo para Count;
// Consume trabaja con los de la transacción recibida.
func NewStockSources(units repository.UnitRepository, movements repository.MovementRepository) StockSources {
	return StockSources{
		units:  unitBackedSource{units: units},
		ledger: ledgerBackedSource{movements: movements},
	}
}

// For elige el origen según el modo de control de la variante.
func (s StockSources) For(v *entity.Variant) StockSource {
	if v.TracksUnits {
		return s.units
	}
	return s.ledger
}

// Units origen de las líneas que nombran una unidad concreta.
func (s StockSources) Units() StockSource { return s.units }

// Ledger origen de las variantes a granel.
func (s StockSources) Ledger() StockSource { return s.ledger }

// unitBackedSource cuenta unidades IN_STOCK, separadas en nuevas y usadas.
type unitBackedSource struct {
	units repository.UnitRepository
}

func (s unitBackedSource) Count(ctx context.Context, variantIDs []string) (map[string]entity.StockCount, error) {
	if len(variantIDs) == 0 {
		return map[string]entity.StockCount{}, nil
	}
	return s.units.CountInStock(ctx, variantIDs)
}

// Consume bloquea la unidad, la pasa de IN_STOCK a SOLD con un update condicional y deja
// el registro de auditoría (SALE, −1) en el libro. Una línea sin unidad sobre una variante
// por IMEI es un error de entrada.
func (s unitBackedSource) Consume(ctx context.Context, repos repository.TxRepos, line SaleLine) (*Consumption, error) {
	if line.UnitID == "" {
		return nil, domain.ErrTrackedVariant
	}
	unit, err := repos.Units.GetForUpdate(ctx, line.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrUnitNotFound
	}
	if unit.StockState != entity.StockStateInStock {
		return nil, domain.ErrUnitUnavailable
	}
	variant, err := repos.Catalog.GetVariant(ctx, unit.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrVariantNotFound
	}
	if !variant.TracksUnits {
		return nil, domain.ErrUntrackedVariant
	}

	sold, err := repos.Units.MarkSold(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	if !sold {
		return nil, domain.ErrUnitUnavailable
	}
	audit := &entity.Movement{
		ID:        uuid.New().String(),
		Date:      line.Date,
		Kind:      entity.MovementKindSALE,
		VariantID: unit.VariantID,
		UnitID:    unit.ID,
		Quantity:  -1,
		RefType:   entity.RefTypeSale,
		RefID:     line.SaleID,
	}
	if err := repos.Movements.Create(ctx, audit); err != nil {
		return nil, err
	}
	return &Consumption{Variant: variant, Unit: unit, Quantity: 1}, nil
}

// ledgerBackedSource suma el libro de movimientos. Los registros de auditoría de ventas
// por unidad (unit_id presente) no cuentan.
type ledgerBackedSource struct {
	movements repository.MovementRepository
}

func (s ledgerBackedSource) Count(ctx context.Context, variantIDs []string) (map[string]entity.StockCount, error) {
	out := make(map[string]entity.StockCount, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	sums, err := s.movements.SumBulkByVariants(ctx, variantIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range variantIDs {
		out[id] = entity.StockCount{VariantID: id, Total: sums[id]}
	}
	return out, nil
}

// Consume agrega un SALE al libro con la variante bloqueada, así líneas repetidas de la
// misma variante dentro de la venta ven las anteriores.
func (s ledgerBackedSource) Consume(ctx context.Context, repos repository.TxRepos, line SaleLine) (*Consumption, error) {
	if line.UnitID != "" {
		return nil, domain.ErrUntrackedVariant
	}
	mov, variant, err := appendToLedger(ctx, repos, MovementInput{
		VariantID: line.VariantID,
		Kind:      entity.MovementKindSALE,
		Quantity:  line.Quantity,
		RefType:   entity.RefTypeSale,
		RefID:     line.SaleID,
	}, line.Date)
	if err != nil {
		return nil, err
	}
	return &Consumption{Variant: variant, Quantity: -mov.Quantity}, nil
}

// appendToLedger bloquea la variante, lee la suma corriente después del bloqueo y agrega el
// movimiento si sum + delta no queda negativo.
func appendToLedger(ctx context.Context, repos repository.TxRepos, in MovementInput, at time.Time) (*entity.Movement, *entity.Variant, error) {
	delta, err := inventory.NormalizeQuantity(in.Kind, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	variant, err := repos.Catalog.LockVariant(ctx, in.VariantID)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil {
		return nil, nil, domain.ErrVariantNotFound
	}
	if variant.TracksUnits {
		return nil, nil, domain.ErrTrackedVariant
	}
	current, err := repos.Movements.SumBulk(ctx, in.VariantID)
	if err != nil {
		return nil, nil, err
	}
	if !inventory.CanApply(current, delta) {
		return nil, nil, domain.ErrInsufficientStock
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		Date:      at,
		Kind:      in.Kind,
		VariantID: in.VariantID,
		Quantity:  delta,
		RefType:   in.RefType,
		RefID:     in.RefID,
		Notes:     in.Notes,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return mov, variant, nil
}
