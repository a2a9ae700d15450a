package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
)

func TestListSales_MasRecientesPrimeroConItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.restock(t, variantCase, 10)
	base := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	f.sales.now = func() time.Time { return base }
	first, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase, Quantity: qty(1)}}})
	require.NoError(t, err)
	f.sales.now = func() time.Time { return base.Add(time.Hour) }
	second, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{VariantID: variantCase, Quantity: qty(1)},
		{VariantID: variantCase, Quantity: qty(2)},
	}})
	require.NoError(t, err)

	list, err := f.query.ListSales(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Len(t, list[0].Items, 2)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "Funda", list[1].Items[0].ModelName)
}

func TestGetSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	sale, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{CustomerID: customerID, Items: []dto.SaleItemRequest{{UnitID: unitID}}, Notes: "con cargador"})
	require.NoError(t, err)

	got, err := f.query.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", got.CustomerName)
	assert.Equal(t, "con cargador", got.Notes)
	require.Len(t, got.Items, 1)
	assert.Equal(t, unitID, got.Items[0].UnitID)
	assert.True(t, got.Total.Equal(sale.Total))

	_, err = f.query.GetSale(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesStats_SeparaCelularesApple(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	loc := time.FixedZone("ART", -3*3600)
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, loc) // jueves
	f.query = NewQueryUseCase(f.store.Repos().Sales, fakeReceipts{}, loc)
	f.query.now = func() time.Time { return now }
	f.restock(t, variantCase, 10)

	iphone := f.unit(t, "111", nil)
	_, err := f.units.Create(ctx, dto.CreateUnitRequest{VariantID: variantSam, IMEI: "999"})
	require.NoError(t, err)
	galaxy, err := f.units.ListByVariant(ctx, variantSam, nil)
	require.NoError(t, err)

	f.sales.now = func() time.Time { return now.Add(-time.Hour) }
	_, err = f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{
		{UnitID: iphone},
		{UnitID: galaxy[0].ID},
		{VariantID: variantCase, Quantity: qty(3)},
	}})
	require.NoError(t, err)
	// venta del lunes: entra en "semana" pero no en "hoy"
	f.sales.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, loc) }
	_, err = f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{VariantID: variantCase, Quantity: qty(2)}}})
	require.NoError(t, err)

	today, err := f.query.SalesStats(ctx, RangeToday)
	require.NoError(t, err)
	assert.Equal(t, int64(5), today.Total)
	assert.Equal(t, int64(1), today.Apple)
	assert.Equal(t, int64(4), today.Others)

	week, err := f.query.SalesStats(ctx, RangeWeek)
	require.NoError(t, err)
	assert.Equal(t, int64(7), week.Total)

	yesterday, err := f.query.SalesStats(ctx, RangeYesterday)
	require.NoError(t, err)
	assert.Equal(t, int64(0), yesterday.Total)

	_, err = f.query.SalesStats(ctx, "anio")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRangeBounds(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	now := time.Date(2026, 3, 15, 23, 30, 0, 0, loc) // domingo

	from, to, err := RangeBounds(RangeWeek, now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, loc), to)

	from, to, err = RangeBounds(RangeMonth, now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 13, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, loc), to)

	// 01:00 UTC del 16 todavía es 15 en Buenos Aires
	from, _, err = RangeBounds(RangeToday, time.Date(2026, 3, 16, 1, 0, 0, 0, time.UTC), loc)
	require.NoError(t, err)
	assert.Equal(t, 15, from.Day())
}

func TestReceiptPDF(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	unitID := f.unit(t, "111", nil)
	sale, err := f.sales.CreateSale(ctx, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{UnitID: unitID}}})
	require.NoError(t, err)

	pdf, name, err := f.query.ReceiptPDF(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "venta-"+sale.ID+".pdf", name)
	assert.Contains(t, string(pdf), sale.ID)

	_, _, err = f.query.ReceiptPDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
