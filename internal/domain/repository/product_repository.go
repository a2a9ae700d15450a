package repository

import (
	"context"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
)

// CatalogFilter filtro opcional por categoría y marca. Vacío = sin filtro.
type CatalogFilter struct {
	CategoryID string
	BrandID    string
}

// CatalogRepository puerto de lectura del catálogo (modelos y variantes).
// El catálogo lo administra otro componente; el motor de stock solo lo consulta.
// Los Get devuelven (nil, nil) cuando el registro no existe.
type CatalogRepository interface {
	GetModel(ctx context.Context, id string) (*entity.Model, error)
	ListModels(ctx context.Context, filter CatalogFilter) ([]*entity.Model, error)
	GetVariant(ctx context.Context, id string) (*entity.Variant, error)
	GetVariants(ctx context.Context, ids []string) ([]*entity.Variant, error)
	ListVariants(ctx context.Context, filter CatalogFilter) ([]*entity.Variant, error)
	ListVariantsByModel(ctx context.Context, modelID string) ([]*entity.Variant, error)
	// LockVariant bloquea la fila de la variante (SELECT FOR UPDATE) hasta el fin de la tx.
	// Serializa las escrituras del libro de esa variante.
	LockVariant(ctx context.Context, id string) (*entity.Variant, error)
}
