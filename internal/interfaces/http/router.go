package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/globaltechnology/inventario-ventas/internal/application/analytics"
	"github.com/globaltechnology/inventario-ventas/internal/application/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Units       *inventory.UnitUseCase
	Movements   *inventory.RegisterMovementUseCase
	Stock       *inventory.StockUseCase
	CreateSale  *sales.CreateSaleUseCase
	SalesQuery  *sales.QueryUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Ventas
	saleHandler := NewSaleHandler(deps.CreateSale, deps.SalesQuery)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/stats", saleHandler.Stats)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Movimientos a granel
	movementHandler := NewMovementHandler(deps.Movements)
	movements := protected.Group("/movements")
	movements.Post("/", movementHandler.Register)
	movements.Get("/", movementHandler.List)

	// Stock
	stockHandler := NewStockHandler(deps.Stock)
	stock := protected.Group("/stock")
	stock.Get("/variants", stockHandler.Variants)
	stock.Get("/variants/:id", stockHandler.Variant)
	stock.Get("/models/:id", stockHandler.Model)
	protected.Get("/inventory", stockHandler.Inventory)

	// Productos
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	products := protected.Group("/products")
	products.Get("/table", stockHandler.ProductTable)
	products.Get("/stats", dashboardHandler.ProductStats)

	// Unidades (el borrado queda para administradores)
	unitHandler := NewUnitHandler(deps.Units)
	units := protected.Group("/units")
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Put("/:id", unitHandler.Update)
	units.Delete("/:id", RequireRole(RoleAdmin), unitHandler.Delete)
}
