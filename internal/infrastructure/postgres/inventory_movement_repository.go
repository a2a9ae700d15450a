package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL. Solo inserción y lectura.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	query := `
		INSERT INTO inventory_movements (id, date, kind, variant_id, unit_id, quantity, ref_type, ref_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Date, string(m.Kind), m.VariantID, nullString(m.UnitID),
		m.Quantity, nullString(m.RefType), nullString(m.RefID), m.Notes,
	)
	if err != nil {
		return wrapErr("create inventory movement", err)
	}
	return nil
}

// SumBulk stock a granel: suma de cantidades firmadas sin los registros de auditoría por unidad.
func (r *MovementRepo) SumBulk(ctx context.Context, variantID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)::bigint
		FROM inventory_movements
		WHERE variant_id = $1 AND unit_id IS NULL`
	var sum int64
	if err := r.q.QueryRow(ctx, query, variantID).Scan(&sum); err != nil {
		return 0, wrapErr("sum bulk stock", err)
	}
	return sum, nil
}

// SumBulkByVariants misma suma agrupada por variante en una consulta. Las variantes sin movimientos no aparecen.
func (r *MovementRepo) SumBulkByVariants(ctx context.Context, variantIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT variant_id, COALESCE(SUM(quantity), 0)::bigint
		FROM inventory_movements
		WHERE variant_id = ANY($1::uuid[]) AND unit_id IS NULL
		GROUP BY variant_id`
	rows, err := r.q.Query(ctx, query, variantIDs)
	if err != nil {
		return nil, wrapErr("sum bulk stock by variants", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var sum int64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan bulk sum: %w", err)
		}
		out[id] = sum
	}
	return out, rows.Err()
}

// SumBulkByModel stock de todos los modelos a granel, incluidos los que están en cero.
func (r *MovementRepo) SumBulkByModel(ctx context.Context) ([]entity.ModelStock, error) {
	query := `
		SELECT m.id, m.name, COALESCE(b.name, ''), COALESCE(c.name, ''), COALESCE(SUM(mv.quantity), 0)::bigint
		FROM models m
		LEFT JOIN brands b ON b.id = m.brand_id
		LEFT JOIN categories c ON c.id = m.category_id
		LEFT JOIN variants v ON v.model_id = m.id
		LEFT JOIN inventory_movements mv ON mv.variant_id = v.id AND mv.unit_id IS NULL
		WHERE NOT m.tracks_units
		GROUP BY m.id, m.name, b.name, c.name
		ORDER BY m.id`
	return queryModelStock(ctx, r.q, "sum bulk stock by model", query)
}

// ListByVariant movimientos de la variante, más recientes primero. from/to nil = sin límite; limit 0 = todos.
func (r *MovementRepo) ListByVariant(ctx context.Context, variantID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, date, kind, variant_id, COALESCE(unit_id::text, ''), quantity,
		       COALESCE(ref_type, ''), COALESCE(ref_id, ''), notes
		FROM inventory_movements
		WHERE variant_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, id DESC
		LIMIT NULLIF($4::int, 0) OFFSET $5`
	rows, err := r.q.Query(ctx, query, variantID, from, to, limit, offset)
	if err != nil {
		return nil, wrapErr("list inventory movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var kind string
		if err := rows.Scan(&m.ID, &m.Date, &kind, &m.VariantID, &m.UnitID, &m.Quantity, &m.RefType, &m.RefID, &m.Notes); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}
