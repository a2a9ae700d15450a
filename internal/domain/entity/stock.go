package entity

// StockCount stock derivado de una variante. Para variantes por unidad New/Used desglosan
// las unidades IN_STOCK; para variantes a granel solo Total tiene sentido.
type StockCount struct {
	VariantID string
	Total     int64
	New       int64
	Used      int64
}

// ModelStock stock agregado de un modelo (suma de sus variantes).
type ModelStock struct {
	ModelID      string
	ModelName    string
	BrandName    string
	CategoryName string
	Quantity     int64
}

// ModelSales unidades vendidas por modelo (ranking).
type ModelSales struct {
	ModelID   string
	ModelName string
	Sold      int64
}
