package sales

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/application/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
	"github.com/globaltechnology/inventario-ventas/internal/infrastructure/memory"
	"github.com/globaltechnology/inventario-ventas/pkg/logger"
)

const (
	variantPhone = "v-iphone13-azul"
	variantCase  = "v-funda"
	variantSam   = "v-galaxy"
	customerID   = "c-1"
)

type fixture struct {
	store     *memory.Store
	movements *inventory.RegisterMovementUseCase
	units     *inventory.UnitUseCase
	stock     *inventory.StockUseCase
	sales     *CreateSaleUseCase
	query     *QueryUseCase
	bumps     *countingNotifier
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Bump(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type fakeReceipts struct{}

func (fakeReceipts) GenerateSaleReceipt(_ context.Context, s *dto.SaleResponse) ([]byte, error) {
	return []byte("%PDF " + s.ID), nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	s.AddModel(entity.Model{ID: "m-iphone", Name: "iPhone 13", BrandID: "b-apple", BrandName: "Apple", CategoryID: "c-cel", CategoryName: "Celulares", TracksUnits: true})
	s.AddModel(entity.Model{ID: "m-galaxy", Name: "Galaxy S23", BrandID: "b-sam", BrandName: "Samsung", CategoryID: "c-cel", CategoryName: "Celulares", TracksUnits: true})
	s.AddModel(entity.Model{ID: "m-funda", Name: "Funda", BrandID: "b-gen", BrandName: "Genérica", CategoryID: "c-acc", CategoryName: "Accesorios"})
	s.AddVariant(entity.Variant{ID: variantPhone, ModelID: "m-iphone", ColorName: "Azul", BasePrice: decimal.NewFromInt(1000)})
	s.AddVariant(entity.Variant{ID: variantSam, ModelID: "m-galaxy", BasePrice: decimal.NewFromInt(900)})
	s.AddVariant(entity.Variant{ID: variantCase, ModelID: "m-funda", BasePrice: decimal.NewFromInt(20)})
	s.AddCustomer(entity.Customer{ID: customerID, Name: "Juan Pérez"})

	repos := s.Repos()
	tx := memory.NewTxRunner(s)
	log := logger.Nop()
	bumps := &countingNotifier{}
	movements := inventory.NewRegisterMovementUseCase(tx, repos.Catalog, repos.Movements, nil, log)
	stock := inventory.NewStockUseCase(repos.Catalog, repos.Units, repos.Movements)
	return &fixture{
		store:     s,
		movements: movements,
		units:     inventory.NewUnitUseCase(tx, repos.Catalog, repos.Units, nil, log),
		stock:     stock,
		sales:     NewCreateSaleUseCase(tx, stock.Sources(), bumps, log),
		query:     NewQueryUseCase(repos.Sales, fakeReceipts{}, time.UTC),
		bumps:     bumps,
	}
}

func (f *fixture) unit(t *testing.T, imei string, override *decimal.Decimal) string {
	t.Helper()
	u, err := f.units.Create(context.Background(), dto.CreateUnitRequest{VariantID: variantPhone, IMEI: imei, PriceOverride: override})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) restock(t *testing.T, variantID string, qty int64) {
	t.Helper()
	_, err := f.movements.RecordMovement(context.Background(), inventory.MovementInput{VariantID: variantID, Kind: entity.MovementKindIN, Quantity: qty})
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, variantID string) int64 {
	t.Helper()
	s, err := f.stock.StockForVariant(context.Background(), variantID)
	require.NoError(t, err)
	return s.Stock
}

func (f *fixture) unitState(t *testing.T, id string) string {
	t.Helper()
	u, err := f.units.Get(context.Background(), id)
	require.NoError(t, err)
	return u.StockState
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func qty(v int64) *int64 { return &v }

func TestCreateSale_UnidadYGranel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	f.restock(t, variantCase, 10)

	sale, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: customerID,
		Items: []dto.SaleItemRequest{
			{UnitID: unitID, UnitPrice: dec(1000), Discount: dec(50)},
			{VariantID: variantCase, Quantity: qty(3), UnitPrice: dec(20)},
		},
		Discount: dec(10),
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(1000)), sale.Total.String())
	assert.Equal(t, "Juan Pérez", sale.CustomerName)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, int64(1), sale.Items[0].Quantity)

	assert.Equal(t, "SOLD", f.unitState(t, unitID))
	assert.Equal(t, int64(7), f.stockOf(t, variantCase))
	assert.Equal(t, 1, f.bumps.count())

	var audit, bulk *entity.Movement
	for _, m := range f.store.Movements() {
		m := m
		if m.RefID != sale.ID {
			continue
		}
		if m.UnitID != "" {
			audit = &m
		} else {
			bulk = &m
		}
	}
	require.NotNil(t, audit)
	assert.Equal(t, entity.MovementKindSALE, audit.Kind)
	assert.Equal(t, int64(-1), audit.Quantity)
	assert.Equal(t, entity.RefTypeSale, audit.RefType)
	require.NotNil(t, bulk)
	assert.Equal(t, int64(-3), bulk.Quantity)
}

func TestCreateSale_PrecioPorDefecto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	withOverride := f.unit(t, "111", dec(850))
	plain := f.unit(t, "222", nil)
	f.restock(t, variantCase, 2)

	sale, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{UnitID: withOverride},
		{UnitID: plain},
		{VariantID: variantCase, Quantity: qty(2)},
	}})
	require.NoError(t, err)
	assert.True(t, sale.Items[0].UnitPrice.Equal(decimal.NewFromInt(850)))
	assert.True(t, sale.Items[1].UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, sale.Items[2].UnitPrice.Equal(decimal.NewFromInt(20)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(1890)), sale.Total.String())
	assert.True(t, sale.Discount.IsZero())
}

func TestCreateSale_UnidadVendidaEsConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)

	_, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID}}})
	require.NoError(t, err)

	_, err = f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID}}})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, f.store.SaleCount())
}

func TestCreateSale_UnidadConCantidadUnoSeAcepta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)

	sale, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID, Quantity: qty(1)}}})
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(1), sale.Items[0].Quantity)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(1000)), sale.Total.String())
	assert.Equal(t, string(entity.StockStateSold), f.unitState(t, unitID))
}

func TestCreateSale_LineaInvalidaRevierteTodo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	f.restock(t, variantCase, 5)
	movementsBefore := len(f.store.Movements())

	// la unidad es válida y se procesa primero; la segunda línea pide más stock del que hay
	_, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{UnitID: unitID},
		{VariantID: variantCase, Quantity: qty(6)},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, "IN_STOCK", f.unitState(t, unitID))
	assert.Equal(t, int64(5), f.stockOf(t, variantCase))
	assert.Len(t, f.store.Movements(), movementsBefore)
	assert.Equal(t, 0, f.store.SaleCount())
	assert.Equal(t, 0, f.store.SaleItemCount())
	assert.Equal(t, 0, f.bumps.count())
}

func TestCreateSale_LineasAcumuladasDeLaMismaVariante(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.restock(t, variantCase, 5)

	_, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{VariantID: variantCase, Quantity: qty(3)},
		{VariantID: variantCase, Quantity: qty(3)},
	}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.stockOf(t, variantCase))
}

func TestCreateSale_FallaAlPersistirItemsRevierte(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	f.store.FailOnSaleItem = errors.New("conexión perdida")

	_, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID}}})
	require.Error(t, err)
	assert.Equal(t, "IN_STOCK", f.unitState(t, unitID))
	assert.Equal(t, 0, f.store.SaleCount())
}

func TestCreateSale_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	f.restock(t, variantCase, 5)

	cases := []struct {
		name string
		req  dto.CreateSaleRequest
		want error
	}{
		{"sin items", dto.CreateSaleRequest{}, domain.ErrInvalidInput},
		{"linea vacia", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{}}}, domain.ErrInvalidInput},
		{"unidad y variante a la vez", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID, VariantID: variantPhone}}}, domain.ErrInvalidInput},
		{"unidad con cantidad 2", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID, Quantity: qty(2)}}}, domain.ErrInvalidInput},
		{"granel sin cantidad", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase}}}, domain.ErrInvalidInput},
		{"granel cantidad cero", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase, Quantity: qty(0)}}}, domain.ErrInvalidInput},
		{"precio con más de dos decimales", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase, Quantity: qty(2), UnitPrice: money("0.005")}}}, domain.ErrAmountScale},
		{"descuento de linea con más de dos decimales", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID, Discount: money("0.125")}}}, domain.ErrAmountScale},
		{"descuento global con más de dos decimales", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase, Quantity: qty(1)}}, Discount: money("1.001")}, domain.ErrAmountScale},
		{"precio negativo", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID, UnitPrice: dec(-1)}}}, domain.ErrInvalidInput},
		{"descuento de linea mayor al precio", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID, UnitPrice: dec(10), Discount: dec(11)}}}, domain.ErrInvalidInput},
		{"descuento de linea mayor al precio por defecto", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase, Quantity: qty(1), Discount: dec(25)}}}, domain.ErrInvalidInput},
		{"descuento global mayor al subtotal", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase, Quantity: qty(1)}}, Discount: dec(21)}, domain.ErrInvalidInput},
		{"variante por IMEI vendida a granel", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantPhone, Quantity: qty(1)}}}, domain.ErrInvalidInput},
		{"unidad inexistente", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: "no-existe"}}}, domain.ErrNotFound},
		{"variante inexistente", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: "no-existe", Quantity: qty(1)}}}, domain.ErrNotFound},
		{"cliente inexistente", dto.CreateSaleRequest{CustomerID: "c-x", Items: []dto.SaleItemRequest{{UnitID: unitID}}}, domain.ErrNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.sales.CreateSale(ctx, c.req)
			assert.ErrorIs(t, err, c.want)
		})
	}

	assert.Equal(t, "IN_STOCK", f.unitState(t, unitID))
	assert.Equal(t, int64(5), f.stockOf(t, variantCase))
	assert.Equal(t, 0, f.store.SaleCount())
}

func TestCreateSale_ConcurrenteMismaUnidad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID}}})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, ok, "exactamente una venta confirma la unidad")
	assert.Equal(t, 1, f.store.SaleCount())

	audits := 0
	for _, m := range f.store.Movements() {
		if m.UnitID == unitID {
			audits++
		}
	}
	assert.Equal(t, 1, audits)
}

func TestCreateSale_TotalNoDependeDelOrden(t *testing.T) {
	ctx := context.Background()
	a := newFixture(t)
	b := newFixture(t)
	for _, f := range []*fixture{a, b} {
		f.restock(t, variantCase, 10)
	}
	ua := a.unit(t, "111", nil)
	ub := b.unit(t, "111", nil)

	sa, err := a.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{UnitID: ua, Discount: dec(30)},
		{VariantID: variantCase, Quantity: qty(4), Discount: dec(2)},
	}, Discount: dec(5)})
	require.NoError(t, err)
	sb, err := b.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{VariantID: variantCase, Quantity: qty(4), Discount: dec(2)},
		{UnitID: ub, Discount: dec(30)},
	}, Discount: dec(5)})
	require.NoError(t, err)

	assert.True(t, sa.Total.Equal(sb.Total))
}

func TestCreateSale_TotalCuadraConLineasPersistidas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.restock(t, variantCase, 10)
	unitID := f.unit(t, "111", money("999.99"))

	created, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{VariantID: variantCase, Quantity: qty(3), UnitPrice: money("0.35"), Discount: money("0.05")},
		{UnitID: unitID, Discount: money("0.99")},
		{VariantID: variantCase, Quantity: qty(1), UnitPrice: money("19.90")},
	}, Discount: money("0.10")})
	require.NoError(t, err)

	stored, err := f.query.GetSale(ctx, created.ID)
	require.NoError(t, err)
	sum := decimal.Zero
	for i, it := range stored.Items {
		assert.Equal(t, i+1, it.LineNo, "se conserva el orden de carga")
		sum = sum.Add(it.Subtotal)
	}
	assert.Equal(t, variantCase, stored.Items[0].VariantID)
	assert.Equal(t, unitID, stored.Items[1].UnitID)
	assert.True(t, sum.Sub(stored.Discount).Equal(stored.Total), "total %s, líneas %s", stored.Total, sum)
	assert.True(t, decimal.RequireFromString("1019.70").Equal(stored.Total), stored.Total.String())
	assert.True(t, created.Total.Equal(stored.Total))
}

// lostRaceUnits simula que otra transacción vendió la unidad entre el bloqueo y el update condicional.
type lostRaceUnits struct{ repository.UnitRepository }

func (lostRaceUnits) MarkSold(context.Context, string) (bool, error) { return false, nil }

type lostRaceTx struct{ inner SaleTxRunner }

func (r lostRaceTx) RunSale(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return r.inner.RunSale(ctx, func(repos repository.TxRepos) error {
		repos.Units = lostRaceUnits{repos.Units}
		return fn(repos)
	})
}

func TestCreateSale_UpdateCondicionalSinFilasEsConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	f.restock(t, variantCase, 5)
	uc := NewCreateSaleUseCase(lostRaceTx{inner: memory.NewTxRunner(f.store)}, f.stock.Sources(), nil, logger.Nop())

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{VariantID: variantCase, Quantity: qty(2)},
		{UnitID: unitID},
	}})
	assert.ErrorIs(t, err, domain.ErrUnitUnavailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(5), f.stockOf(t, variantCase), "la línea a granel previa se revierte")
	assert.Equal(t, 0, f.store.SaleCount())
}

func TestCreateSale_IndiceUnicoDeUnidadEsConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	f.store.FailOnSaleItem = domain.ErrUnitSold

	_, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID}}})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, isBusinessError(err))
	assert.Equal(t, "IN_STOCK", f.unitState(t, unitID))
}
