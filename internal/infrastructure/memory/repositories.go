package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

var (
	_ repository.CatalogRepository  = (*catalogRepo)(nil)
	_ repository.UnitRepository     = (*unitRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.CustomerRepository = (*customerRepo)(nil)
	_ repository.SaleRepository     = (*saleRepo)(nil)
)

type catalogRepo struct{ s *Store }

func (r *catalogRepo) GetModel(_ context.Context, id string) (*entity.Model, error) {
	var out *entity.Model
	r.s.read(func() {
		if m, ok := r.s.models[id]; ok {
			out = &m
		}
	})
	return out, nil
}

func (r *catalogRepo) ListModels(_ context.Context, f repository.CatalogFilter) ([]*entity.Model, error) {
	var out []*entity.Model
	r.s.read(func() {
		for _, m := range r.s.models {
			if matchFilter(f, m.CategoryID, m.BrandID) {
				m := m
				out = append(out, &m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *catalogRepo) GetVariant(_ context.Context, id string) (*entity.Variant, error) {
	var out *entity.Variant
	r.s.read(func() {
		if v, ok := r.s.variants[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *catalogRepo) GetVariants(_ context.Context, ids []string) ([]*entity.Variant, error) {
	set := idSet(ids)
	return r.listVariants(func(v entity.Variant) bool { return set[v.ID] }), nil
}

func (r *catalogRepo) ListVariants(_ context.Context, f repository.CatalogFilter) ([]*entity.Variant, error) {
	return r.listVariants(func(v entity.Variant) bool { return matchFilter(f, v.CategoryID, v.BrandID) }), nil
}

func (r *catalogRepo) ListVariantsByModel(_ context.Context, modelID string) ([]*entity.Variant, error) {
	return r.listVariants(func(v entity.Variant) bool { return v.ModelID == modelID }), nil
}

// LockVariant en memoria el bloqueo lo da la serialización de transacciones.
func (r *catalogRepo) LockVariant(ctx context.Context, id string) (*entity.Variant, error) {
	return r.GetVariant(ctx, id)
}

func (r *catalogRepo) listVariants(keep func(entity.Variant) bool) []*entity.Variant {
	var out []*entity.Variant
	r.s.read(func() {
		for _, v := range r.s.variants {
			if keep(v) {
				v := v
				out = append(out, &v)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matchFilter(f repository.CatalogFilter, categoryID, brandID string) bool {
	if f.CategoryID != "" && f.CategoryID != categoryID {
		return false
	}
	if f.BrandID != "" && f.BrandID != brandID {
		return false
	}
	return true
}

type unitRepo struct {
	s    *Store
	inTx bool
}

func (r *unitRepo) Create(_ context.Context, u *entity.Unit) error {
	return r.s.write(r.inTx, func() error {
		if _, ok := r.s.units[u.ID]; ok {
			return domain.ErrDuplicate
		}
		if u.IMEI != "" {
			for _, other := range r.s.units {
				if other.IMEI == u.IMEI {
					return domain.ErrDuplicateIMEI
				}
			}
		}
		r.s.units[u.ID] = *u
		return nil
	})
}

func (r *unitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	var out *entity.Unit
	r.s.read(func() {
		if u, ok := r.s.units[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *unitRepo) GetByIMEI(_ context.Context, imei string) (*entity.Unit, error) {
	var out *entity.Unit
	r.s.read(func() {
		for _, u := range r.s.units {
			if u.IMEI == imei {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *unitRepo) GetForUpdate(ctx context.Context, id string) (*entity.Unit, error) {
	return r.GetByID(ctx, id)
}

func (r *unitRepo) Update(_ context.Context, u *entity.Unit) error {
	return r.s.write(r.inTx, func() error {
		if _, ok := r.s.units[u.ID]; !ok {
			return domain.ErrUnitNotFound
		}
		r.s.units[u.ID] = *u
		return nil
	})
}

func (r *unitRepo) MarkSold(_ context.Context, id string) (bool, error) {
	ok := false
	err := r.s.write(r.inTx, func() error {
		u, found := r.s.units[id]
		if !found || u.StockState != entity.StockStateInStock {
			return nil
		}
		u.StockState = entity.StockStateSold
		u.UpdatedAt = time.Now()
		r.s.units[id] = u
		ok = true
		return nil
	})
	return ok, err
}

func (r *unitRepo) ListByVariant(ctx context.Context, variantID string, states []entity.StockState) ([]*entity.Unit, error) {
	return r.ListByVariants(ctx, []string{variantID}, states)
}

func (r *unitRepo) ListByVariants(_ context.Context, variantIDs []string, states []entity.StockState) ([]*entity.Unit, error) {
	set := idSet(variantIDs)
	var out []*entity.Unit
	r.s.read(func() {
		for _, u := range r.s.units {
			if set[u.VariantID] && (len(states) == 0 || containsState(states, u.StockState)) {
				u := u
				out = append(out, &u)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *unitRepo) DeleteIfUnreferenced(_ context.Context, id string) (bool, error) {
	deleted := false
	err := r.s.write(r.inTx, func() error {
		if _, ok := r.s.units[id]; !ok {
			return nil
		}
		for _, m := range r.s.movements {
			if m.UnitID == id {
				return nil
			}
		}
		for _, it := range r.s.items {
			if it.UnitID == id {
				return nil
			}
		}
		delete(r.s.units, id)
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *unitRepo) CountInStock(_ context.Context, variantIDs []string) (map[string]entity.StockCount, error) {
	set := idSet(variantIDs)
	out := make(map[string]entity.StockCount, len(variantIDs))
	r.s.read(func() {
		for _, u := range r.s.units {
			if !set[u.VariantID] || u.StockState != entity.StockStateInStock {
				continue
			}
			c := out[u.VariantID]
			c.VariantID = u.VariantID
			c.Total++
			if u.Condition == entity.ConditionUsed {
				c.Used++
			} else {
				c.New++
			}
			out[u.VariantID] = c
		}
	})
	return out, nil
}

func (r *unitRepo) CountInStockByModel(_ context.Context) ([]entity.ModelStock, error) {
	var out []entity.ModelStock
	r.s.read(func() {
		for _, m := range r.s.models {
			if !m.TracksUnits {
				continue
			}
			var n int64
			for _, u := range r.s.units {
				if u.StockState == entity.StockStateInStock && r.s.variants[u.VariantID].ModelID == m.ID {
					n++
				}
			}
			out = append(out, modelStock(m, n))
		}
	})
	sortModelStock(out)
	return out, nil
}

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.s.write(r.inTx, func() error {
		r.s.movements = append(r.s.movements, *m)
		return nil
	})
}

func (r *movementRepo) SumBulk(_ context.Context, variantID string) (int64, error) {
	var sum int64
	r.s.read(func() {
		for _, m := range r.s.movements {
			if m.VariantID == variantID && m.UnitID == "" {
				sum += m.Quantity
			}
		}
	})
	return sum, nil
}

func (r *movementRepo) SumBulkByVariants(_ context.Context, variantIDs []string) (map[string]int64, error) {
	set := idSet(variantIDs)
	out := make(map[string]int64, len(variantIDs))
	r.s.read(func() {
		for _, m := range r.s.movements {
			if set[m.VariantID] && m.UnitID == "" {
				out[m.VariantID] += m.Quantity
			}
		}
	})
	return out, nil
}

func (r *movementRepo) SumBulkByModel(_ context.Context) ([]entity.ModelStock, error) {
	var out []entity.ModelStock
	r.s.read(func() {
		for _, m := range r.s.models {
			if m.TracksUnits {
				continue
			}
			var n int64
			for _, mv := range r.s.movements {
				if mv.UnitID == "" && r.s.variants[mv.VariantID].ModelID == m.ID {
					n += mv.Quantity
				}
			}
			out = append(out, modelStock(m, n))
		}
	})
	sortModelStock(out)
	return out, nil
}

func (r *movementRepo) ListByVariant(_ context.Context, variantID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.s.read(func() {
		for i := len(r.s.movements) - 1; i >= 0; i-- {
			m := r.s.movements[i]
			if m.VariantID != variantID {
				continue
			}
			if from != nil && m.Date.Before(*from) {
				continue
			}
			if to != nil && m.Date.After(*to) {
				continue
			}
			out = append(out, &m)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, limit, offset), nil
}

type customerRepo struct{ s *Store }

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.s.read(func() {
		if c, ok := r.s.customers[id]; ok {
			out = &c
		}
	})
	return out, nil
}

type saleRepo struct {
	s    *Store
	inTx bool
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.s.write(r.inTx, func() error {
		h := *sale
		h.Items = nil
		r.s.sales = append(r.s.sales, h)
		return nil
	})
}

func (r *saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	return r.s.write(r.inTx, func() error {
		if r.s.FailOnSaleItem != nil {
			return r.s.FailOnSaleItem
		}
		r.s.items = append(r.s.items, *item)
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.s.read(func() {
		for _, s := range r.s.sales {
			if s.ID == id {
				out = r.hydrate(s)
				return
			}
		}
	})
	return out, nil
}

func (r *saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	r.s.read(func() {
		for i := len(r.s.sales) - 1; i >= 0; i-- {
			out = append(out, r.hydrate(r.s.sales[i]))
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, limit, offset), nil
}

// hydrate requiere el lock de lectura tomado.
func (r *saleRepo) hydrate(s entity.Sale) *entity.Sale {
	if c, ok := r.s.customers[s.CustomerID]; ok {
		s.CustomerName = c.Name
	}
	s.Items = nil
	for _, it := range r.s.items {
		if it.SaleID == s.ID {
			it := it
			it.ModelName = r.s.variants[it.VariantID].ModelName
			s.Items = append(s.Items, &it)
		}
	}
	sort.SliceStable(s.Items, func(i, j int) bool { return s.Items[i].LineNo < s.Items[j].LineNo })
	return &s
}

func (r *saleRepo) SoldLinesBetween(_ context.Context, from, to time.Time) ([]entity.SoldLine, error) {
	var out []entity.SoldLine
	r.s.read(func() {
		dates := make(map[string]time.Time, len(r.s.sales))
		for _, s := range r.s.sales {
			dates[s.ID] = s.Date
		}
		for _, it := range r.s.items {
			d := dates[it.SaleID]
			if d.Before(from) || !d.Before(to) {
				continue
			}
			v := r.s.variants[it.VariantID]
			out = append(out, entity.SoldLine{Quantity: it.Quantity, BrandName: v.BrandName, CategoryName: v.CategoryName})
		}
	})
	return out, nil
}

func (r *saleRepo) TopModels(_ context.Context, limit int) ([]entity.ModelSales, error) {
	var out []entity.ModelSales
	r.s.read(func() {
		byModel := map[string]*entity.ModelSales{}
		for _, it := range r.s.items {
			v := r.s.variants[it.VariantID]
			ms, ok := byModel[v.ModelID]
			if !ok {
				ms = &entity.ModelSales{ModelID: v.ModelID, ModelName: v.ModelName}
				byModel[v.ModelID] = ms
			}
			ms.Sold += it.Quantity
		}
		for _, ms := range byModel {
			out = append(out, *ms)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sold != out[j].Sold {
			return out[i].Sold > out[j].Sold
		}
		return strings.ToLower(out[i].ModelName) < strings.ToLower(out[j].ModelName)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func modelStock(m entity.Model, n int64) entity.ModelStock {
	return entity.ModelStock{ModelID: m.ID, ModelName: m.Name, BrandName: m.BrandName, CategoryName: m.CategoryName, Quantity: n}
}

func sortModelStock(list []entity.ModelStock) {
	sort.Slice(list, func(i, j int) bool { return list[i].ModelID < list[j].ModelID })
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
