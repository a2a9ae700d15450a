package repository

import (
	"context"
	"time"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
)

// MovementRepository puerto de persistencia del libro de movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// SumBulk suma las cantidades de la variante excluyendo los registros de auditoría por unidad.
	SumBulk(ctx context.Context, variantID string) (int64, error)
	SumBulkByVariants(ctx context.Context, variantIDs []string) (map[string]int64, error)
	// SumBulkByModel stock por modelo para todos los modelos a granel (incluye ceros).
	SumBulkByModel(ctx context.Context) ([]entity.ModelStock, error)
	ListByVariant(ctx context.Context, variantID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
