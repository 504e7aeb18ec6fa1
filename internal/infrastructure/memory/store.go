// Package memory implementa los puertos de persistencia en memoria con transacciones
// serializadas (un mutex) y rollback por copia del estado. Se usa con INVENTORY_STORE=memory
// y en los tests de casos de uso y handlers.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventory-reconciliation/internal/application/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado completo: catálogo, sesiones, líneas y movimientos.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	products   map[string]entity.CatalogProduct
	sessions   map[string]*entity.InventorySession // sin líneas
	references map[string]string                   // referencia -> id de sesión
	lines      map[string]*entity.InventoryLine
	bySession  map[string][]string // ids de línea en orden
	movements  []*entity.InventoryMovement
}

// NewStore crea el store con los productos iniciales del catálogo.
func NewStore(products ...entity.CatalogProduct) *Store {
	s := &Store{st: &state{
		products:   make(map[string]entity.CatalogProduct, len(products)),
		sessions:   make(map[string]*entity.InventorySession),
		references: make(map[string]string),
		lines:      make(map[string]*entity.InventoryLine),
		bySession:  make(map[string][]string),
	}}
	for _, p := range products {
		s.st.products[p.ID] = p
	}
	return s
}

// Run ejecuta fn con repositorios atados a una transacción exclusiva.
// Si fn devuelve error se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(
	sessionRepo repository.SessionRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&SessionRepo{s: s, tx: true}, &StockRepo{s: s, tx: true}, &MovementRepo{s: s, tx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Sessions repositorio de sesiones fuera de transacción.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }

// Stock repositorio del catálogo fuera de transacción.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// UpsertProduct agrega o reemplaza un producto del catálogo.
func (s *Store) UpsertProduct(p entity.CatalogProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// Quantity cantidad actual de un producto (false si no existe).
func (s *Store) Quantity(productID string) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.products[productID]
	return p.Quantity, ok
}

// SetQuantity modifica la cantidad de un producto, como lo haría una venta o una recepción.
func (s *Store) SetQuantity(productID string, qty decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.st.products[productID]; ok {
		p.Quantity = qty
		s.st.products[productID] = p
	}
}

// lock toma el mutex solo fuera de transacción (dentro de Run ya está tomado).
func (s *Store) lock(tx bool) func() {
	if tx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (st *state) clone() *state {
	c := &state{
		products:   make(map[string]entity.CatalogProduct, len(st.products)),
		sessions:   make(map[string]*entity.InventorySession, len(st.sessions)),
		references: make(map[string]string, len(st.references)),
		lines:      make(map[string]*entity.InventoryLine, len(st.lines)),
		bySession:  make(map[string][]string, len(st.bySession)),
		movements:  make([]*entity.InventoryMovement, len(st.movements)),
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.sessions {
		c.sessions[k] = copySession(v)
	}
	for k, v := range st.references {
		c.references[k] = v
	}
	for k, v := range st.lines {
		c.lines[k] = copyLine(v)
	}
	for k, v := range st.bySession {
		c.bySession[k] = append([]string(nil), v...)
	}
	for i, m := range st.movements {
		mc := *m
		c.movements[i] = &mc
	}
	return c
}

func copySession(s *entity.InventorySession) *entity.InventorySession {
	c := *s
	c.CategoryIDs = append([]string(nil), s.CategoryIDs...)
	c.ProductIDs = append([]string(nil), s.ProductIDs...)
	c.Lines = nil
	if s.ValidatedAt != nil {
		t := *s.ValidatedAt
		c.ValidatedAt = &t
	}
	if s.CancelledAt != nil {
		t := *s.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

func copyLine(l *entity.InventoryLine) *entity.InventoryLine {
	c := *l
	if l.CountedQuantity != nil {
		q := *l.CountedQuantity
		c.CountedQuantity = &q
	}
	if l.Variance != nil {
		v := *l.Variance
		c.Variance = &v
	}
	if l.CountedAt != nil {
		t := *l.CountedAt
		c.CountedAt = &t
	}
	return &c
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortProducts(products []entity.CatalogProduct) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].Location != products[j].Location {
			return products[i].Location < products[j].Location
		}
		return products[i].SKU < products[j].SKU
	})
}
