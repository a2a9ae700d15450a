package dto

// ProductStatsDTO respuesta de GET /api/products/stats.
// Stock bajo = stock en (0, umbral]; el ranking de vendidos es histórico.
type ProductStatsDTO struct {
	ZeroStockCount int             `json:"zero_stock_count"`
	LowStockCount  int             `json:"low_stock_count"`
	ZeroStock      []ModelStockDTO `json:"zero_stock"`
	LowStock       []ModelStockDTO `json:"low_stock"`
	TopSold        []TopModelDTO   `json:"top_sold"`
}

// TopModelDTO modelo del ranking de más vendidos.
type TopModelDTO struct {
	ModelID   string `json:"model_id"`
	ModelName string `json:"model_name"`
	UnitsSold int64  `json:"units_sold"`
}
