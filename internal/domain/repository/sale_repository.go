package repository

import (
	"context"
	"time"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas e ítems.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetByID devuelve la venta con sus ítems o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve las ventas más recientes primero, con ítems resueltos en una segunda consulta.
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
	// SoldLinesBetween líneas vendidas en [from, to) con marca y categoría del modelo.
	SoldLinesBetween(ctx context.Context, from, to time.Time) ([]entity.SoldLine, error)
	// TopModels ranking histórico de modelos por unidades vendidas.
	TopModels(ctx context.Context, limit int) ([]entity.ModelSales, error)
}
