package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
)

const unitID = "3f8e2a10-6c1b-4d7e-9a55-2b0c4e6d8f01"

func TestUnitRepo_MarkSold(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
	sold, err := NewUnitRepository(q).MarkSold(ctx, unitID)
	require.NoError(t, err)
	assert.True(t, sold)
	assert.Contains(t, q.sql, "stock_state = 'IN_STOCK'", "el update es condicional")

	// Otra transacción la vendió entre el bloqueo y el update.
	q = &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}
	sold, err = NewUnitRepository(q).MarkSold(ctx, unitID)
	require.NoError(t, err)
	assert.False(t, sold)

	q = &fakeQuerier{execErr: pgErr("40P01")}
	_, err = NewUnitRepository(q).MarkSold(ctx, unitID)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
}

func TestUnitRepo_IMEIDuplicado(t *testing.T) {
	ctx := context.Background()
	q := &fakeQuerier{execErr: pgErr("23505")}
	repo := NewUnitRepository(q)

	err := repo.Create(ctx, &entity.Unit{VariantID: unitID, IMEI: "356938035643809", StockState: entity.StockStateInStock, Condition: entity.ConditionNew})
	assert.ErrorIs(t, err, domain.ErrDuplicateIMEI)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = repo.Update(ctx, &entity.Unit{ID: unitID, IMEI: "356938035643809"})
	assert.ErrorIs(t, err, domain.ErrDuplicateIMEI)
}

func TestUnitRepo_UpdateSinFilas(t *testing.T) {
	q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}
	err := NewUnitRepository(q).Update(context.Background(), &entity.Unit{ID: unitID})
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)
}

func TestUnitRepo_GetForUpdate(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{}
	u, err := NewUnitRepository(q).GetForUpdate(ctx, unitID)
	require.NoError(t, err)
	assert.Nil(t, u, "sin filas = (nil, nil)")
	assert.Contains(t, q.sql, "FOR UPDATE")

	q = &fakeQuerier{rowErr: pgErr("22P02")}
	_, err = NewUnitRepository(q).GetForUpdate(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUnitRepo_DeleteReferenciada(t *testing.T) {
	q := &fakeQuerier{tag: pgconn.NewCommandTag("DELETE 0")}
	deleted, err := NewUnitRepository(q).DeleteIfUnreferenced(context.Background(), unitID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Contains(t, q.sql, "NOT EXISTS")
}

func TestSaleRepo_CreateItem(t *testing.T) {
	ctx := context.Background()
	item := &entity.SaleItem{
		SaleID:    "7a1d0c3e-2b4f-4e6a-8c9d-0e1f2a3b4c5d",
		LineNo:    2,
		VariantID: unitID,
		UnitID:    unitID,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1000),
	}

	// El índice único parcial sobre unit_id rechaza la segunda venta de la misma unidad.
	q := &fakeQuerier{execErr: pgErr("23505")}
	err := NewSaleRepository(q).CreateItem(ctx, item)
	assert.ErrorIs(t, err, domain.ErrUnitSold)
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.Len(t, q.args, 8)
	assert.Equal(t, 2, q.args[2], "line_no se persiste")

	q = &fakeQuerier{execErr: pgErr("40001")}
	err = NewSaleRepository(q).CreateItem(ctx, item)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
}

func TestSaleRepo_ItemsEnOrdenDeCarga(t *testing.T) {
	q := &fakeQuerier{queryErr: pgErr("08006")}
	err := NewSaleRepository(q).attachItems(context.Background(), []*entity.Sale{{ID: unitID}})
	require.Error(t, err)
	assert.Contains(t, q.sql, "ORDER BY si.sale_id, si.line_no")
}

func TestCustomerRepo_NoExiste(t *testing.T) {
	c, err := NewCustomerRepository(&fakeQuerier{}).GetByID(context.Background(), unitID)
	require.NoError(t, err)
	assert.Nil(t, c)
}
