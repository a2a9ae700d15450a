package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo libro de unidades serializadas sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de unidades. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

const unitColumns = `id, variant_id, COALESCE(imei, ''), battery_pct, price_override, stock_state, condition, notes, created_at, updated_at`

// Create persiste una unidad. IMEI duplicado → domain.ErrDuplicateIMEI.
func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	query := `
		INSERT INTO units (id, variant_id, imei, battery_pct, price_override, stock_state, condition, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.VariantID, nullString(u.IMEI), u.BatteryPct, u.PriceOverride,
		string(u.StockState), string(u.Condition), u.Notes, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIMEI
		}
		return wrapErr("create unit", err)
	}
	return nil
}

// GetByID obtiene una unidad. (nil, nil) si no existe.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	return r.getOne(ctx, "get unit", `SELECT `+unitColumns+` FROM units WHERE id = $1`, id)
}

// GetByIMEI obtiene una unidad por IMEI. (nil, nil) si no existe.
func (r *UnitRepo) GetByIMEI(ctx context.Context, imei string) (*entity.Unit, error) {
	return r.getOne(ctx, "get unit by imei", `SELECT `+unitColumns+` FROM units WHERE imei = $1`, imei)
}

// GetForUpdate obtiene la unidad y bloquea la fila (SELECT FOR UPDATE).
func (r *UnitRepo) GetForUpdate(ctx context.Context, id string) (*entity.Unit, error) {
	return r.getOne(ctx, "get unit for update", `SELECT `+unitColumns+` FROM units WHERE id = $1 FOR UPDATE`, id)
}

// Update reemplaza los campos editables de la unidad.
func (r *UnitRepo) Update(ctx context.Context, u *entity.Unit) error {
	u.UpdatedAt = time.Now()
	query := `
		UPDATE units SET imei = $2, battery_pct = $3, price_override = $4, stock_state = $5,
		       condition = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, nullString(u.IMEI), u.BatteryPct, u.PriceOverride,
		string(u.StockState), string(u.Condition), u.Notes, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIMEI
		}
		return wrapErr("update unit", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

// MarkSold update condicional: solo toca la fila si sigue IN_STOCK.
func (r *UnitRepo) MarkSold(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE units SET stock_state = 'SOLD', updated_at = now()
		WHERE id = $1 AND stock_state = 'IN_STOCK'`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, wrapErr("mark unit sold", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByVariant unidades de una variante en los estados dados (vacío = todos).
func (r *UnitRepo) ListByVariant(ctx context.Context, variantID string, states []entity.StockState) ([]*entity.Unit, error) {
	return r.ListByVariants(ctx, []string{variantID}, states)
}

// ListByVariants unidades de varias variantes, en orden de alta.
func (r *UnitRepo) ListByVariants(ctx context.Context, variantIDs []string, states []entity.StockState) ([]*entity.Unit, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + unitColumns + ` FROM units
		WHERE variant_id = ANY($1::uuid[])
		  AND (cardinality($2::text[]) = 0 OR stock_state = ANY($2::text[]))
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, variantIDs, stateStrings(states))
	if err != nil {
		return nil, wrapErr("list units", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// DeleteIfUnreferenced un solo DELETE: la comprobación de referencias y el borrado son atómicos.
func (r *UnitRepo) DeleteIfUnreferenced(ctx context.Context, id string) (bool, error) {
	query := `
		DELETE FROM units u
		WHERE u.id = $1
		  AND NOT EXISTS (SELECT 1 FROM inventory_movements mv WHERE mv.unit_id = u.id)
		  AND NOT EXISTS (SELECT 1 FROM sale_items si WHERE si.unit_id = u.id)`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, wrapErr("delete unit", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountInStock unidades IN_STOCK por variante, separadas en nuevas y usadas.
func (r *UnitRepo) CountInStock(ctx context.Context, variantIDs []string) (map[string]entity.StockCount, error) {
	out := make(map[string]entity.StockCount, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT variant_id, COUNT(*),
		       COUNT(*) FILTER (WHERE condition <> 'USED'),
		       COUNT(*) FILTER (WHERE condition = 'USED')
		FROM units
		WHERE variant_id = ANY($1::uuid[]) AND stock_state = 'IN_STOCK'
		GROUP BY variant_id`
	rows, err := r.q.Query(ctx, query, variantIDs)
	if err != nil {
		return nil, wrapErr("count units in stock", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.StockCount
		if err := rows.Scan(&c.VariantID, &c.Total, &c.New, &c.Used); err != nil {
			return nil, fmt.Errorf("scan stock count: %w", err)
		}
		out[c.VariantID] = c
	}
	return out, rows.Err()
}

// CountInStockByModel stock de todos los modelos controlados por unidad, incluidos los que están en cero.
func (r *UnitRepo) CountInStockByModel(ctx context.Context) ([]entity.ModelStock, error) {
	query := `
		SELECT m.id, m.name, COALESCE(b.name, ''), COALESCE(c.name, ''), COUNT(u.id)
		FROM models m
		LEFT JOIN brands b ON b.id = m.brand_id
		LEFT JOIN categories c ON c.id = m.category_id
		LEFT JOIN variants v ON v.model_id = m.id
		LEFT JOIN units u ON u.variant_id = v.id AND u.stock_state = 'IN_STOCK'
		WHERE m.tracks_units
		GROUP BY m.id, m.name, b.name, c.name
		ORDER BY m.id`
	return queryModelStock(ctx, r.q, "count units by model", query)
}

func (r *UnitRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Unit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return u, nil
}

func scanUnit(row pgx.Row) (*entity.Unit, error) {
	var u entity.Unit
	var state, cond string
	err := row.Scan(
		&u.ID, &u.VariantID, &u.IMEI, &u.BatteryPct, &u.PriceOverride,
		&state, &cond, &u.Notes, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.StockState = entity.StockState(state)
	u.Condition = entity.Condition(cond)
	return &u, nil
}

func queryModelStock(ctx context.Context, q Querier, op, query string, args ...any) ([]entity.ModelStock, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []entity.ModelStock
	for rows.Next() {
		var ms entity.ModelStock
		if err := rows.Scan(&ms.ModelID, &ms.ModelName, &ms.BrandName, &ms.CategoryName, &ms.Quantity); err != nil {
			return nil, fmt.Errorf("scan model stock: %w", err)
		}
		list = append(list, ms)
	}
	return list, rows.Err()
}
