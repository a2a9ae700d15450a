package inventory

import (
	"context"

	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error se hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// StockChangeNotifier recibe un aviso después de cada commit que modifica stock
// (invalida las cachés consultivas). Puede ser nil.
type StockChangeNotifier interface {
	Bump(ctx context.Context) error
}
