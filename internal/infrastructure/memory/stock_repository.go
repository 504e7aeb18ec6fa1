package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
)

var (
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
)

// StockRepo catálogo de stock en memoria.
type StockRepo struct {
	s  *Store
	tx bool
}

// ResolveProducts resuelve el alcance contra el catálogo.
func (r *StockRepo) ResolveProducts(_ context.Context, scope entity.SessionScope) ([]entity.CatalogProduct, error) {
	defer r.s.lock(r.tx)()
	var out []entity.CatalogProduct
	switch scope.Type {
	case entity.SessionTypeFull:
		for _, p := range r.s.st.products {
			if p.Active {
				out = append(out, p)
			}
		}
	case entity.SessionTypeCyclic:
		cats := make(map[string]struct{}, len(scope.CategoryIDs))
		for _, c := range scope.CategoryIDs {
			cats[c] = struct{}{}
		}
		for _, p := range r.s.st.products {
			if _, ok := cats[p.CategoryID]; ok && p.Active {
				out = append(out, p)
			}
		}
	case entity.SessionTypeSpot:
		for _, id := range scope.ProductIDs {
			if p, ok := r.s.st.products[id]; ok {
				out = append(out, p)
			}
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	sortProducts(out)
	return out, nil
}

// ApplyDeltas suma los deltas; si un producto no existe o el stock resultante
// no cabe en NUMERIC(18,4) no se aplica ninguno.
func (r *StockRepo) ApplyDeltas(_ context.Context, deltas []entity.StockDelta) ([]entity.StockAdjustment, error) {
	defer r.s.lock(r.tx)()
	for _, d := range deltas {
		p, ok := r.s.st.products[d.ProductID]
		if !ok {
			return nil, fmt.Errorf("producto %s: %w", d.ProductID, domain.ErrNotFound)
		}
		if after := p.Quantity.Add(d.Delta); inventory.CheckStoredQuantity(after) != nil {
			return nil, fmt.Errorf("producto %s: stock resultante %s: %w", d.ProductID, after, domain.ErrInvalidQuantity)
		}
	}
	out := make([]entity.StockAdjustment, 0, len(deltas))
	for _, d := range deltas {
		p := r.s.st.products[d.ProductID]
		before := p.Quantity
		p.Quantity = before.Add(d.Delta)
		r.s.st.products[d.ProductID] = p
		out = append(out, entity.StockAdjustment{
			ProductID:      d.ProductID,
			Delta:          d.Delta,
			QuantityBefore: before,
			QuantityAfter:  p.Quantity,
		})
	}
	return out, nil
}

// MovementRepo movimientos en memoria (orden de inserción = cronológico).
type MovementRepo struct {
	s  *Store
	tx bool
}

// Create agrega un movimiento.
func (r *MovementRepo) Create(_ context.Context, movement *entity.InventoryMovement) error {
	defer r.s.lock(r.tx)()
	m := *movement
	r.s.st.movements = append(r.s.st.movements, &m)
	return nil
}

// List más recientes primero.
func (r *MovementRepo) List(_ context.Context, limit, offset int) ([]*entity.InventoryMovement, error) {
	defer r.s.lock(r.tx)()
	return paginate(r.filter(""), limit, offset), nil
}

// ListByProduct movimientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	defer r.s.lock(r.tx)()
	return paginate(r.filter(productID), limit, offset), nil
}

// Count movimientos (de un producto si productID no es vacío).
func (r *MovementRepo) Count(_ context.Context, productID string) (int, error) {
	defer r.s.lock(r.tx)()
	if productID == "" {
		return len(r.s.st.movements), nil
	}
	n := 0
	for _, m := range r.s.st.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *MovementRepo) filter(productID string) []*entity.InventoryMovement {
	out := make([]*entity.InventoryMovement, 0, len(r.s.st.movements))
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		m := r.s.st.movements[i]
		if productID != "" && m.ProductID != productID {
			continue
		}
		mc := *m
		out = append(out, &mc)
	}
	return out
}
