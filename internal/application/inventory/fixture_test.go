package inventory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/infrastructure/memory"
	"github.com/globaltechnology/inventario-ventas/pkg/logger"
)

const (
	modelPhone  = "m-iphone13"
	modelCase   = "m-funda"
	variantBlue = "v-iphone13-azul-128"
	variantRed  = "v-iphone13-rojo-256"
	variantCase = "v-funda-negra"
)

type fixture struct {
	store     *memory.Store
	movements *RegisterMovementUseCase
	units     *UnitUseCase
	stock     *StockUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	s.AddModel(entity.Model{ID: modelPhone, Name: "iPhone 13", BrandID: "b-apple", BrandName: "Apple", CategoryID: "c-cel", CategoryName: "Celulares", TracksUnits: true})
	s.AddModel(entity.Model{ID: modelCase, Name: "Funda silicona", BrandID: "b-gen", BrandName: "Genérica", CategoryID: "c-acc", CategoryName: "Accesorios"})
	s.AddVariant(entity.Variant{ID: variantBlue, ModelID: modelPhone, ColorName: "Azul", CapacityLabel: "128GB", BasePrice: decimal.NewFromInt(1000), Active: true})
	s.AddVariant(entity.Variant{ID: variantRed, ModelID: modelPhone, ColorName: "Rojo", CapacityLabel: "256GB", BasePrice: decimal.NewFromInt(1200), Active: true})
	s.AddVariant(entity.Variant{ID: variantCase, ModelID: modelCase, ColorName: "Negra", BasePrice: decimal.NewFromInt(20), Active: true})

	repos := s.Repos()
	tx := memory.NewTxRunner(s)
	log := logger.Nop()
	return &fixture{
		store:     s,
		movements: NewRegisterMovementUseCase(tx, repos.Catalog, repos.Movements, nil, log),
		units:     NewUnitUseCase(tx, repos.Catalog, repos.Units, nil, log),
		stock:     NewStockUseCase(repos.Catalog, repos.Units, repos.Movements),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
