package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
	"github.com/globaltechnology/inventario-ventas/internal/infrastructure/memory"
)

func consume(t *testing.T, f *fixture, src StockSource, line SaleLine) (*Consumption, error) {
	t.Helper()
	var out *Consumption
	err := memory.NewTxRunner(f.store).Run(context.Background(), func(repos repository.TxRepos) error {
		c, err := src.Consume(context.Background(), repos, line)
		out = c
		return err
	})
	return out, err
}

func TestStockSources_ForSegunModo(t *testing.T) {
	f := newFixture(t)
	srcs := f.stock.Sources()

	phone, err := f.store.Repos().Catalog.GetVariant(context.Background(), variantBlue)
	require.NoError(t, err)
	bulk, err := f.store.Repos().Catalog.GetVariant(context.Background(), variantCase)
	require.NoError(t, err)

	assert.Equal(t, srcs.Units(), srcs.For(phone))
	assert.Equal(t, srcs.Ledger(), srcs.For(bulk))
}

func TestUnitSource_Consume(t *testing.T) {
	f := newFixture(t)
	u := createUnit(t, f, variantBlue, "356938035643809")
	src := f.stock.Sources().Units()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := consume(t, f, src, SaleLine{SaleID: "s-1", VariantID: variantBlue, Quantity: 1, Date: now})
	assert.ErrorIs(t, err, domain.ErrTrackedVariant, "variante por IMEI sin unidad")

	c, err := consume(t, f, src, SaleLine{SaleID: "s-1", UnitID: u.ID, Date: now})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Quantity)
	assert.Equal(t, u.ID, c.Unit.ID)
	assert.Equal(t, variantBlue, c.Variant.ID)
	assert.Equal(t, "iPhone 13", c.Variant.ModelName)

	_, err = consume(t, f, src, SaleLine{SaleID: "s-2", UnitID: u.ID, Date: now})
	assert.ErrorIs(t, err, domain.ErrUnitUnavailable)

	_, err = consume(t, f, src, SaleLine{SaleID: "s-3", UnitID: "no-existe", Date: now})
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)

	// La unidad vendida deja de contar como disponible.
	counts, err := src.Count(context.Background(), []string{variantBlue})
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[variantBlue].Total)
}

func TestLedgerSource_Consume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.movements.RecordMovement(ctx, MovementInput{VariantID: variantCase, Kind: entity.MovementKindIN, Quantity: 5})
	require.NoError(t, err)
	src := f.stock.Sources().Ledger()
	now := time.Now()

	c, err := consume(t, f, src, SaleLine{SaleID: "s-1", VariantID: variantCase, Quantity: 3, Date: now})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Quantity)
	assert.Nil(t, c.Unit)
	assert.Equal(t, int64(2), bulkStock(t, f, variantCase))

	_, err = consume(t, f, src, SaleLine{SaleID: "s-2", VariantID: variantCase, Quantity: 3, Date: now})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), bulkStock(t, f, variantCase), "el rechazo no deja movimiento")

	_, err = consume(t, f, src, SaleLine{SaleID: "s-3", UnitID: "u-1", VariantID: variantCase, Quantity: 1, Date: now})
	assert.ErrorIs(t, err, domain.ErrUntrackedVariant)

	_, err = consume(t, f, src, SaleLine{SaleID: "s-4", VariantID: variantBlue, Quantity: 1, Date: now})
	assert.ErrorIs(t, err, domain.ErrTrackedVariant)
}
