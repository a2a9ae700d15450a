// Package analytics contiene el tablero de productos: modelos sin stock, con stock bajo
// y ranking de más vendidos.
package analytics

import (
	"context"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

const dashboardTopModels = 5 // modelos en el ranking de más vendidos

// Cache caché consultiva versionada. Puede ser nil: entonces siempre se consulta la BD.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
}

// DashboardUseCase arma el tablero de productos.
//
// Fuente de datos: repositorios de unidades, movimientos y ventas (read-only).
// La caché nunca se usa para decidir disponibilidad, solo para este tablero.
type DashboardUseCase struct {
	units        repository.UnitRepository
	movements    repository.MovementRepository
	sales        repository.SaleRepository
	cache        Cache
	lowThreshold int64
}

// NewDashboardUseCase construye el caso de uso. lowThreshold <= 0 usa 2.
func NewDashboardUseCase(
	units repository.UnitRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	cache Cache,
	lowThreshold int64,
) *DashboardUseCase {
	if lowThreshold <= 0 {
		lowThreshold = 2
	}
	return &DashboardUseCase{
		units:        units,
		movements:    movements,
		sales:        sales,
		cache:        cache,
		lowThreshold: lowThreshold,
	}
}

// ProductStats devuelve el tablero, desde la caché si la versión de stock no cambió.
func (uc *DashboardUseCase) ProductStats(ctx context.Context) (*dto.ProductStatsDTO, error) {
	if uc.cache == nil {
		return uc.load(ctx)
	}
	key, err := uc.cache.BuildKey(ctx, "dashboard", "products", strconv.FormatInt(uc.lowThreshold, 10))
	if err != nil {
		return uc.load(ctx)
	}
	var out dto.ProductStatsDTO
	if err := uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return uc.load(ctx)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// load ejecuta las tres lecturas en paralelo:
//  1. stock por modelo controlado por unidad
//  2. stock por modelo a granel
//  3. ranking histórico de vendidos
func (uc *DashboardUseCase) load(ctx context.Context) (*dto.ProductStatsDTO, error) {
	var (
		tracked, bulk []entity.ModelStock
		top           []entity.ModelSales
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tracked, err = uc.units.CountInStockByModel(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bulk, err = uc.movements.SumBulkByModel(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		top, err = uc.sales.TopModels(gctx, dashboardTopModels)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ProductStatsDTO{
		ZeroStock: []dto.ModelStockDTO{},
		LowStock:  []dto.ModelStockDTO{},
		TopSold:   make([]dto.TopModelDTO, 0, len(top)),
	}
	for _, m := range append(tracked, bulk...) {
		row := dto.ModelStockDTO{ModelID: m.ModelID, ModelName: m.ModelName, Stock: m.Quantity}
		switch {
		case m.Quantity <= 0:
			row.Stock = 0
			out.ZeroStock = append(out.ZeroStock, row)
		case m.Quantity <= uc.lowThreshold:
			out.LowStock = append(out.LowStock, row)
		}
	}
	sortByName(out.ZeroStock)
	sortByName(out.LowStock)
	out.ZeroStockCount = len(out.ZeroStock)
	out.LowStockCount = len(out.LowStock)
	for _, t := range top {
		out.TopSold = append(out.TopSold, dto.TopModelDTO{ModelID: t.ModelID, ModelName: t.ModelName, UnitsSold: t.Sold})
	}
	return out, nil
}

func sortByName(list []dto.ModelStockDTO) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].ModelName != list[j].ModelName {
			return list[i].ModelName < list[j].ModelName
		}
		return list[i].ModelID < list[j].ModelID
	})
}
