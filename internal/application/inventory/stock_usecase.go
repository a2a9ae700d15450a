package inventory

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

// StockUseCase componente de solo lectura: stock derivado por variante y por modelo,
// listado de inventario y tabla de productos.
type StockUseCase struct {
	catalog   repository.CatalogRepository
	units     repository.UnitRepository
	movements repository.MovementRepository
	sources   StockSources
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	catalog repository.CatalogRepository,
	units repository.UnitRepository,
	movements repository.MovementRepository,
) *StockUseCase {
	return &StockUseCase{
		catalog:   catalog,
		units:     units,
		movements: movements,
		sources:   NewStockSources(units, movements),
	}
}

// Sources orígenes de stock por modo de control; la venta consume a través de ellos.
func (uc *StockUseCase) Sources() StockSources {
	return uc.sources
}

// StockForVariant stock actual de una variante.
func (uc *StockUseCase) StockForVariant(ctx context.Context, variantID string) (*dto.VariantStockDTO, error) {
	v, err := uc.catalog.GetVariant(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	if v == nil {
		return nil, domain.ErrVariantNotFound
	}
	counts, err := uc.sources.For(v).Count(ctx, []string{v.ID})
	if err != nil {
		return nil, err
	}
	out := toVariantStock(v, counts[v.ID])
	return &out, nil
}

// StockForVariants stock de varias variantes con una cantidad fija de consultas
// (variantes, unidades agrupadas, libro agrupado). Los IDs inexistentes se omiten.
func (uc *StockUseCase) StockForVariants(ctx context.Context, ids []string) (map[string]dto.VariantStockDTO, error) {
	out := make(map[string]dto.VariantStockDTO, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	variants, err := uc.catalog.GetVariants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get variants: %w", err)
	}
	counts, err := uc.countFor(ctx, variants)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		out[v.ID] = toVariantStock(v, counts[v.ID])
	}
	return out, nil
}

// StockForModel suma del stock de las variantes del modelo.
func (uc *StockUseCase) StockForModel(ctx context.Context, modelID string) (*dto.ModelStockDTO, error) {
	m, err := uc.catalog.GetModel(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}
	if m == nil {
		return nil, domain.ErrModelNotFound
	}
	variants, err := uc.catalog.ListVariantsByModel(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	counts, err := uc.countFor(ctx, variants)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c.Total
	}
	return &dto.ModelStockDTO{ModelID: m.ID, ModelName: m.Name, Stock: total}, nil
}

// ModelStockLevels stock por modelo de todo el catálogo (una consulta agrupada por origen).
func (uc *StockUseCase) ModelStockLevels(ctx context.Context) ([]entity.ModelStock, error) {
	tracked, err := uc.units.CountInStockByModel(ctx)
	if err != nil {
		return nil, err
	}
	bulk, err := uc.movements.SumBulkByModel(ctx)
	if err != nil {
		return nil, err
	}
	return append(tracked, bulk...), nil
}

// ListInventory una fila por unidad IN_STOCK (modelos por IMEI) y una por variante a granel
// con stock positivo, ordenadas por modelo, color y capacidad.
func (uc *StockUseCase) ListInventory(ctx context.Context, filter dto.InventoryFilter) ([]dto.InventoryRowDTO, error) {
	variants, err := uc.catalog.ListVariants(ctx, repository.CatalogFilter{CategoryID: filter.CategoryID, BrandID: filter.BrandID})
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	byID := make(map[string]*entity.Variant, len(variants))
	var trackedIDs, bulkIDs []string
	for _, v := range variants {
		byID[v.ID] = v
		if v.TracksUnits {
			trackedIDs = append(trackedIDs, v.ID)
		} else {
			bulkIDs = append(bulkIDs, v.ID)
		}
	}

	rows := make([]dto.InventoryRowDTO, 0, len(variants))
	if len(trackedIDs) > 0 {
		units, err := uc.units.ListByVariants(ctx, trackedIDs, []entity.StockState{entity.StockStateInStock})
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			v := byID[u.VariantID]
			if v == nil {
				continue
			}
			rows = append(rows, dto.InventoryRowDTO{
				ModelID:        v.ModelID,
				ModelName:      v.ModelName,
				VariantID:      v.ID,
				ColorName:      v.ColorName,
				CapacityLabel:  v.CapacityLabel,
				UnitID:         u.ID,
				IMEI:           u.IMEI,
				BatteryPct:     u.BatteryPct,
				Condition:      string(u.Condition),
				StockState:     string(u.StockState),
				BasePrice:      v.BasePrice,
				PriceOverride:  u.PriceOverride,
				EffectivePrice: inventory.EffectivePrice(u.PriceOverride, v.BasePrice),
				TracksUnits:    true,
				CreatedAt:      u.CreatedAt,
				UpdatedAt:      u.UpdatedAt,
			})
		}
	}
	if len(bulkIDs) > 0 {
		counts, err := uc.sources.Ledger().Count(ctx, bulkIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range bulkIDs {
			stock := counts[id].Total
			if stock <= 0 {
				continue
			}
			v := byID[id]
			rows = append(rows, dto.InventoryRowDTO{
				ModelID:        v.ModelID,
				ModelName:      v.ModelName,
				VariantID:      v.ID,
				ColorName:      v.ColorName,
				CapacityLabel:  v.CapacityLabel,
				BasePrice:      v.BasePrice,
				EffectivePrice: v.BasePrice,
				Stock:          &stock,
				CreatedAt:      v.CreatedAt,
				UpdatedAt:      v.UpdatedAt,
			})
		}
	}

	col := newCollator()
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := col.CompareString(a.ModelName, b.ModelName); c != 0 {
			return c < 0
		}
		if c := compareOptional(col, a.ColorName, b.ColorName); c != 0 {
			return c < 0
		}
		if c := compareOptional(col, a.CapacityLabel, b.CapacityLabel); c != 0 {
			return c < 0
		}
		if a.VariantID != b.VariantID {
			return a.VariantID < b.VariantID
		}
		return a.UnitID < b.UnitID
	})
	return rows, nil
}

// ProductTable modelos con el stock de cada variante (total y, si controlan por IMEI, nuevos/usados).
func (uc *StockUseCase) ProductTable(ctx context.Context, filter dto.InventoryFilter) ([]dto.ModelTableDTO, error) {
	cf := repository.CatalogFilter{CategoryID: filter.CategoryID, BrandID: filter.BrandID}
	models, err := uc.catalog.ListModels(ctx, cf)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		return []dto.ModelTableDTO{}, nil
	}
	variants, err := uc.catalog.ListVariants(ctx, cf)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	counts, err := uc.countFor(ctx, variants)
	if err != nil {
		return nil, err
	}

	col := newCollator()
	byModel := make(map[string][]dto.VariantTableDTO, len(models))
	for _, v := range variants {
		s := toVariantStock(v, counts[v.ID])
		byModel[v.ModelID] = append(byModel[v.ModelID], dto.VariantTableDTO{
			ID:            v.ID,
			ColorName:     v.ColorName,
			CapacityLabel: v.CapacityLabel,
			Stock:         s.Stock,
			New:           s.New,
			Used:          s.Used,
		})
	}
	for _, list := range byModel {
		sort.SliceStable(list, func(i, j int) bool {
			if c := compareOptional(col, list[i].ColorName, list[j].ColorName); c != 0 {
				return c < 0
			}
			if c := compareOptional(col, list[i].CapacityLabel, list[j].CapacityLabel); c != 0 {
				return c < 0
			}
			return list[i].ID < list[j].ID
		})
	}

	sort.SliceStable(models, func(i, j int) bool {
		return col.CompareString(models[i].Name, models[j].Name) < 0
	})
	out := make([]dto.ModelTableDTO, 0, len(models))
	for _, m := range models {
		vs := byModel[m.ID]
		if vs == nil {
			vs = []dto.VariantTableDTO{}
		}
		out = append(out, dto.ModelTableDTO{
			ID:           m.ID,
			Name:         m.Name,
			CategoryID:   m.CategoryID,
			CategoryName: m.CategoryName,
			TracksUnits:  m.TracksUnits,
			Variants:     vs,
		})
	}
	return out, nil
}

// countFor resuelve el stock de un conjunto de variantes separándolas por origen:
// una consulta agrupada por origen, sin importar cuántas variantes haya.
func (uc *StockUseCase) countFor(ctx context.Context, variants []*entity.Variant) (map[string]entity.StockCount, error) {
	var trackedIDs, bulkIDs []string
	for _, v := range variants {
		if v.TracksUnits {
			trackedIDs = append(trackedIDs, v.ID)
		} else {
			bulkIDs = append(bulkIDs, v.ID)
		}
	}
	out := make(map[string]entity.StockCount, len(variants))
	for _, part := range []struct {
		src StockSource
		ids []string
	}{{uc.sources.Units(), trackedIDs}, {uc.sources.Ledger(), bulkIDs}} {
		if len(part.ids) == 0 {
			continue
		}
		counts, err := part.src.Count(ctx, part.ids)
		if err != nil {
			return nil, err
		}
		for id, c := range counts {
			out[id] = c
		}
	}
	return out, nil
}

func toVariantStock(v *entity.Variant, c entity.StockCount) dto.VariantStockDTO {
	out := dto.VariantStockDTO{VariantID: v.ID, TracksUnits: v.TracksUnits, Stock: c.Total}
	if v.TracksUnits {
		n, u := c.New, c.Used
		out.New = &n
		out.Used = &u
	}
	return out
}

// newCollator orden alfabético en español sin distinguir mayúsculas.
// collate.Collator no es seguro para uso concurrente: se crea uno por llamada.
func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.IgnoreCase)
}

// compareOptional ordena los vacíos al final.
func compareOptional(col *collate.Collator, a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return col.CompareString(a, b)
}
