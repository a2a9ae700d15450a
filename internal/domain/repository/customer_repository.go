package repository

import (
	"context"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
)

// CustomerRepository puerto de lectura de clientes (los administra otro componente).
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
