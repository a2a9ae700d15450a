package sales

import (
	"context"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción que incluye repos de catálogo,
// unidades, movimientos, clientes y ventas.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// ReceiptGenerator genera el comprobante PDF de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *dto.SaleResponse) ([]byte, error)
}
