package repository

import (
	"context"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
)

// UnitRepository puerto de persistencia del libro de unidades serializadas.
// Usable con pool o dentro de una transacción.
type UnitRepository interface {
	// Create devuelve domain.ErrDuplicateIMEI si el IMEI ya existe.
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	GetByIMEI(ctx context.Context, imei string) (*entity.Unit, error)
	// GetForUpdate bloquea la fila de la unidad (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	// MarkSold pasa la unidad a SOLD solo si sigue IN_STOCK. false = no se tocó ninguna fila.
	MarkSold(ctx context.Context, id string) (bool, error)
	ListByVariant(ctx context.Context, variantID string, states []entity.StockState) ([]*entity.Unit, error)
	ListByVariants(ctx context.Context, variantIDs []string, states []entity.StockState) ([]*entity.Unit, error)
	// DeleteIfUnreferenced borra la unidad solo si ningún movimiento ni ítem de venta la referencia.
	DeleteIfUnreferenced(ctx context.Context, id string) (bool, error)
	// CountInStock cuenta unidades IN_STOCK por variante (nuevas y usadas) en una sola consulta.
	CountInStock(ctx context.Context, variantIDs []string) (map[string]entity.StockCount, error)
	// CountInStockByModel stock por modelo para todos los modelos que controlan por unidad (incluye ceros).
	CountInStockByModel(ctx context.Context) ([]entity.ModelStock, error)
}
