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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas e ítems sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleSelect = `
	SELECT s.id, s.date, COALESCE(s.customer_id::text, ''), COALESCE(c.name, ''), s.discount, s.total, s.notes
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id`

const saleItemSelect = `
	SELECT si.id, si.sale_id, si.line_no, si.variant_id, COALESCE(si.unit_id::text, ''), si.quantity,
	       si.unit_price, si.discount, COALESCE(m.name, '')
	FROM sale_items si
	LEFT JOIN variants v ON v.id = si.variant_id
	LEFT JOIN models m ON m.id = v.model_id`

// Create persiste la cabecera de la venta (los ítems van por CreateItem).
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	query := `
		INSERT INTO sales (id, date, customer_id, discount, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, sale.ID, sale.Date, nullString(sale.CustomerID), sale.Discount, sale.Total, sale.Notes)
	if err != nil {
		return wrapErr("create sale", err)
	}
	return nil
}

// CreateItem persiste una línea. El índice único parcial sobre unit_id impide vender dos veces la misma unidad.
func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, line_no, variant_id, unit_id, quantity, unit_price, discount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SaleID, item.LineNo, item.VariantID, nullString(item.UnitID),
		item.Quantity, item.UnitPrice, item.Discount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUnitSold
		}
		return wrapErr("create sale item", err)
	}
	return nil
}

// GetByID obtiene la venta con sus ítems. (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	if err := r.attachItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// List ventas más recientes primero; los ítems se resuelven en una segunda consulta.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	query := saleSelect + `
	ORDER BY s.date DESC, s.id DESC
	LIMIT NULLIF($1::int, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrapErr("list sales", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list sales", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// SoldLinesBetween líneas vendidas en [from, to) con marca y categoría del modelo.
func (r *SaleRepo) SoldLinesBetween(ctx context.Context, from, to time.Time) ([]entity.SoldLine, error) {
	query := `
		SELECT si.quantity, COALESCE(b.name, ''), COALESCE(c.name, '')
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN variants v ON v.id = si.variant_id
		JOIN models m ON m.id = v.model_id
		LEFT JOIN brands b ON b.id = m.brand_id
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE s.date >= $1 AND s.date < $2`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, wrapErr("sold lines between", err)
	}
	defer rows.Close()
	var list []entity.SoldLine
	for rows.Next() {
		var l entity.SoldLine
		if err := rows.Scan(&l.Quantity, &l.BrandName, &l.CategoryName); err != nil {
			return nil, fmt.Errorf("scan sold line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// TopModels ranking histórico por unidades vendidas; empate por nombre.
func (r *SaleRepo) TopModels(ctx context.Context, limit int) ([]entity.ModelSales, error) {
	query := `
		SELECT m.id, m.name, SUM(si.quantity)::bigint AS sold
		FROM sale_items si
		JOIN variants v ON v.id = si.variant_id
		JOIN models m ON m.id = v.model_id
		GROUP BY m.id, m.name
		ORDER BY sold DESC, lower(m.name)
		LIMIT NULLIF($1::int, 0)`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, wrapErr("top models", err)
	}
	defer rows.Close()
	var list []entity.ModelSales
	for rows.Next() {
		var ms entity.ModelSales
		if err := rows.Scan(&ms.ModelID, &ms.ModelName, &ms.Sold); err != nil {
			return nil, fmt.Errorf("scan model sales: %w", err)
		}
		list = append(list, ms)
	}
	return list, rows.Err()
}

func (r *SaleRepo) attachItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	rows, err := r.q.Query(ctx, saleItemSelect+` WHERE si.sale_id = ANY($1::uuid[]) ORDER BY si.sale_id, si.line_no`, ids)
	if err != nil {
		return wrapErr("list sale items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.LineNo, &it.VariantID, &it.UnitID, &it.Quantity,
			&it.UnitPrice, &it.Discount, &it.ModelName); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, &it)
		}
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.Date, &s.CustomerID, &s.CustomerName, &s.Discount, &s.Total, &s.Notes)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
