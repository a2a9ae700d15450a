package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/infrastructure/cache"
	"github.com/globaltechnology/inventario-ventas/internal/infrastructure/memory"
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	s.AddModel(entity.Model{ID: "m-a", Name: "iPhone 12", TracksUnits: true})
	s.AddModel(entity.Model{ID: "m-b", Name: "iPhone 13", TracksUnits: true})
	s.AddModel(entity.Model{ID: "m-c", Name: "Cargador", TracksUnits: false})
	s.AddVariant(entity.Variant{ID: "v-a", ModelID: "m-a", BasePrice: decimal.NewFromInt(700)})
	s.AddVariant(entity.Variant{ID: "v-b", ModelID: "m-b", BasePrice: decimal.NewFromInt(900)})
	s.AddVariant(entity.Variant{ID: "v-c", ModelID: "m-c", BasePrice: decimal.NewFromInt(15)})

	repos := s.Repos()
	// m-a sin stock, m-b con 2 unidades (bajo), m-c con 10 (normal)
	for _, id := range []string{"u1", "u2"} {
		require.NoError(t, repos.Units.Create(ctx, &entity.Unit{ID: id, VariantID: "v-b", IMEI: id, StockState: entity.StockStateInStock, Condition: entity.ConditionNew}))
	}
	require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "mv1", VariantID: "v-c", Kind: entity.MovementKindIN, Quantity: 10}))
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{ID: "s1", Date: time.Now()}))
	require.NoError(t, repos.Sales.CreateItem(ctx, &entity.SaleItem{ID: "i1", SaleID: "s1", VariantID: "v-c", Quantity: 4}))
	require.NoError(t, repos.Sales.CreateItem(ctx, &entity.SaleItem{ID: "i2", SaleID: "s1", VariantID: "v-a", UnitID: "u0", Quantity: 1}))
	return s
}

func TestProductStats_SinCache(t *testing.T) {
	s := seed(t)
	repos := s.Repos()
	uc := NewDashboardUseCase(repos.Units, repos.Movements, repos.Sales, nil, 0)

	out, err := uc.ProductStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, out.ZeroStockCount)
	assert.Equal(t, "m-a", out.ZeroStock[0].ModelID)
	assert.Equal(t, 1, out.LowStockCount)
	assert.Equal(t, "m-b", out.LowStock[0].ModelID)
	assert.Equal(t, int64(2), out.LowStock[0].Stock)

	require.Len(t, out.TopSold, 2)
	assert.Equal(t, "Cargador", out.TopSold[0].ModelName)
	assert.Equal(t, int64(4), out.TopSold[0].UnitsSold)
}

func TestProductStats_UmbralConfigurable(t *testing.T) {
	s := seed(t)
	repos := s.Repos()
	uc := NewDashboardUseCase(repos.Units, repos.Movements, repos.Sales, nil, 10)

	out, err := uc.ProductStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, out.LowStockCount)
}

func TestProductStats_CacheInvalidadaPorBump(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	repos := s.Repos()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.New(client, time.Minute)
	uc := NewDashboardUseCase(repos.Units, repos.Movements, repos.Sales, c, 2)

	first, err := uc.ProductStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ZeroStockCount)

	// nueva unidad de m-a: sin Bump la caché sigue sirviendo el valor anterior
	require.NoError(t, repos.Units.Create(ctx, &entity.Unit{ID: "u3", VariantID: "v-a", IMEI: "u3", StockState: entity.StockStateInStock, Condition: entity.ConditionNew}))
	cached, err := uc.ProductStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.ZeroStockCount)

	require.NoError(t, c.Bump(ctx))
	fresh, err := uc.ProductStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.ZeroStockCount)
	assert.Equal(t, 2, fresh.LowStockCount)
}
