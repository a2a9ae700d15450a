package entity

import "time"

// Customer cliente de una venta. Lo administra un servicio externo; aquí solo se consulta.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
