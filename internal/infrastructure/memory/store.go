// Package memory implementa los puertos de repositorio en memoria. Las transacciones se
// serializan y restauran el estado previo ante cualquier error, igual que un Rollback.
package memory

import (
	"context"
	"sync"

	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	tx sync.Mutex   // una transacción a la vez (equivale a los bloqueos de fila)
	mu sync.RWMutex // protege los mapas

	models    map[string]entity.Model
	variants  map[string]entity.Variant
	units     map[string]entity.Unit
	customers map[string]entity.Customer
	movements []entity.Movement
	sales     []entity.Sale
	items     []entity.SaleItem

	// FailOnSaleItem, si no es nil, se devuelve al insertar un ítem de venta (simula una caída).
	FailOnSaleItem error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		models:    map[string]entity.Model{},
		variants:  map[string]entity.Variant{},
		units:     map[string]entity.Unit{},
		customers: map[string]entity.Customer{},
	}
}

// AddModel registra un modelo del catálogo.
func (s *Store) AddModel(m entity.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[m.ID] = m
	for id, v := range s.variants {
		if v.ModelID == m.ID {
			s.variants[id] = withModel(v, m)
		}
	}
}

// AddVariant registra una variante; hereda nombre, marca, categoría y control por unidad del modelo.
func (s *Store) AddVariant(v entity.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.models[v.ModelID]; ok {
		v = withModel(v, m)
	}
	s.variants[v.ID] = v
}

// AddCustomer registra un cliente.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

// Repos devuelve repositorios fuera de transacción (equivalente al pool).
func (s *Store) Repos() repository.TxRepos {
	return s.repos(false)
}

// Movements copia del libro completo en orden de inserción.
func (s *Store) Movements() []entity.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Movement(nil), s.movements...)
}

// SaleCount cantidad de ventas persistidas.
func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales)
}

// SaleItemCount cantidad de ítems de venta persistidos.
func (s *Store) SaleItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) repos(inTx bool) repository.TxRepos {
	return repository.TxRepos{
		Catalog:   &catalogRepo{s: s},
		Units:     &unitRepo{s: s, inTx: inTx},
		Movements: &movementRepo{s: s, inTx: inTx},
		Customers: &customerRepo{s: s},
		Sales:     &saleRepo{s: s, inTx: inTx},
	}
}

// write aplica fn con el lock de datos. Fuera de transacción también toma el lock de tx
// para no pisar una transacción en curso que luego haga rollback.
func (s *Store) write(inTx bool, fn func() error) error {
	if !inTx {
		s.tx.Lock()
		defer s.tx.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

type snapshot struct {
	units     map[string]entity.Unit
	movements []entity.Movement
	sales     []entity.Sale
	items     []entity.SaleItem
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	units := make(map[string]entity.Unit, len(s.units))
	for k, v := range s.units {
		units[k] = v
	}
	return snapshot{
		units:     units,
		movements: append([]entity.Movement(nil), s.movements...),
		sales:     append([]entity.Sale(nil), s.sales...),
		items:     append([]entity.SaleItem(nil), s.items...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = snap.units
	s.movements = snap.movements
	s.sales = snap.sales
	s.items = snap.items
}

// TxRunner ejecuta callbacks de forma serializada con rollback por snapshot.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn; si devuelve error el estado vuelve al previo a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	r.s.tx.Lock()
	defer r.s.tx.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.snapshot()
	if err := fn(r.s.repos(true)); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// RunSale misma semántica que Run (todas las tx exponen los cinco repositorios).
func (r *TxRunner) RunSale(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return r.Run(ctx, fn)
}

func withModel(v entity.Variant, m entity.Model) entity.Variant {
	v.ModelName = m.Name
	v.TracksUnits = m.TracksUnits
	v.BrandID, v.BrandName = m.BrandID, m.BrandName
	v.CategoryID, v.CategoryName = m.CategoryID, m.CategoryName
	return v
}

func containsState(states []entity.StockState, s entity.StockState) bool {
	for _, x := range states {
		if x == s {
			return true
		}
	}
	return false
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
