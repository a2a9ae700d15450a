package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globaltechnology/inventario-ventas/internal/application/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/application/sales"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.SaleTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewTxRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// RunSale misma semántica que Run; la venta completa (unidades, libro, cabecera e ítems) es una sola tx.
func (r *TxRunner) RunSale(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return r.Run(ctx, fn)
}

// NewTxRepos construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewTxRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Catalog:   NewCatalogRepository(q),
		Units:     NewUnitRepository(q),
		Movements: NewMovementRepository(q),
		Customers: NewCustomerRepository(q),
		Sales:     NewSaleRepository(q),
	}
}
