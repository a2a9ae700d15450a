package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Catalog   CatalogRepository
	Units     UnitRepository
	Movements MovementRepository
	Customers CustomerRepository
	Sales     SaleRepository
}
