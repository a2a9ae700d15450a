package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura del catálogo (modelos y variantes) sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const modelSelect = `
	SELECT m.id, m.name, m.category_id, COALESCE(c.name, ''), m.brand_id, COALESCE(b.name, ''), m.tracks_units
	FROM models m
	LEFT JOIN categories c ON c.id = m.category_id
	LEFT JOIN brands b ON b.id = m.brand_id`

// variantSelect TracksUnits se hereda del modelo; la variante no lo guarda.
const variantSelect = `
	SELECT v.id, v.model_id, m.name, m.category_id, COALESCE(c.name, ''), m.brand_id, COALESCE(b.name, ''),
	       m.tracks_units, COALESCE(v.color_id::text, ''), COALESCE(co.name, ''),
	       COALESCE(v.capacity_id::text, ''), COALESCE(ca.label, ''),
	       v.sku, v.base_price, v.active, v.created_at, v.updated_at
	FROM variants v
	JOIN models m ON m.id = v.model_id
	LEFT JOIN categories c ON c.id = m.category_id
	LEFT JOIN brands b ON b.id = m.brand_id
	LEFT JOIN colors co ON co.id = v.color_id
	LEFT JOIN capacities ca ON ca.id = v.capacity_id`

// GetModel obtiene un modelo por ID. (nil, nil) si no existe.
func (r *CatalogRepo) GetModel(ctx context.Context, id string) (*entity.Model, error) {
	m, err := scanModel(r.q.QueryRow(ctx, modelSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get model", err)
	}
	return m, nil
}

// ListModels lista modelos filtrando opcionalmente por categoría y marca.
func (r *CatalogRepo) ListModels(ctx context.Context, f repository.CatalogFilter) ([]*entity.Model, error) {
	query := modelSelect + `
	WHERE ($1 = '' OR m.category_id::text = $1) AND ($2 = '' OR m.brand_id::text = $2)
	ORDER BY m.id`
	rows, err := r.q.Query(ctx, query, f.CategoryID, f.BrandID)
	if err != nil {
		return nil, wrapErr("list models", err)
	}
	defer rows.Close()
	var list []*entity.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetVariant obtiene una variante con los datos heredados del modelo. (nil, nil) si no existe.
func (r *CatalogRepo) GetVariant(ctx context.Context, id string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, variantSelect+` WHERE v.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get variant", err)
	}
	return v, nil
}

// GetVariants obtiene varias variantes en una sola consulta; las inexistentes se omiten.
func (r *CatalogRepo) GetVariants(ctx context.Context, ids []string) ([]*entity.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryVariants(ctx, "get variants", variantSelect+` WHERE v.id = ANY($1::uuid[]) ORDER BY v.id`, ids)
}

// ListVariants lista variantes filtrando opcionalmente por categoría y marca del modelo.
func (r *CatalogRepo) ListVariants(ctx context.Context, f repository.CatalogFilter) ([]*entity.Variant, error) {
	query := variantSelect + `
	WHERE ($1 = '' OR m.category_id::text = $1) AND ($2 = '' OR m.brand_id::text = $2)
	ORDER BY v.id`
	return r.queryVariants(ctx, "list variants", query, f.CategoryID, f.BrandID)
}

// ListVariantsByModel variantes de un modelo.
func (r *CatalogRepo) ListVariantsByModel(ctx context.Context, modelID string) ([]*entity.Variant, error) {
	return r.queryVariants(ctx, "list variants by model", variantSelect+` WHERE v.model_id = $1 ORDER BY v.id`, modelID)
}

// LockVariant bloquea solo la fila de variants (FOR UPDATE OF v) hasta el fin de la transacción.
func (r *CatalogRepo) LockVariant(ctx context.Context, id string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, variantSelect+` WHERE v.id = $1 FOR UPDATE OF v`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("lock variant", err)
	}
	return v, nil
}

func (r *CatalogRepo) queryVariants(ctx context.Context, op, query string, args ...any) ([]*entity.Variant, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanModel(row pgx.Row) (*entity.Model, error) {
	var m entity.Model
	err := row.Scan(&m.ID, &m.Name, &m.CategoryID, &m.CategoryName, &m.BrandID, &m.BrandName, &m.TracksUnits)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(
		&v.ID, &v.ModelID, &v.ModelName, &v.CategoryID, &v.CategoryName, &v.BrandID, &v.BrandName,
		&v.TracksUnits, &v.ColorID, &v.ColorName, &v.CapacityID, &v.CapacityLabel,
		&v.SKU, &v.BasePrice, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
