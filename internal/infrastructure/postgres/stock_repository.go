package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del catálogo de stock sobre la tabla products (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ResolveProducts lee la foto del catálogo para el alcance dado.
func (r *StockRepo) ResolveProducts(ctx context.Context, scope entity.SessionScope) ([]entity.CatalogProduct, error) {
	query := `
		SELECT id, sku, name, location, COALESCE(category_id, ''), active, quantity
		FROM products`
	var args []any
	switch scope.Type {
	case entity.SessionTypeFull:
		query += ` WHERE active`
	case entity.SessionTypeCyclic:
		query += ` WHERE active AND category_id = ANY($1)`
		args = append(args, scope.CategoryIDs)
	case entity.SessionTypeSpot:
		query += ` WHERE id = ANY($1)`
		args = append(args, scope.ProductIDs)
	default:
		return nil, domain.ErrInvalidInput
	}
	query += ` ORDER BY location, sku`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	defer rows.Close()
	var list []entity.CatalogProduct
	for rows.Next() {
		var p entity.CatalogProduct
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Location, &p.CategoryID, &p.Active, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ApplyDeltas bloquea cada producto (SELECT FOR UPDATE) en el orden recibido y suma el delta.
// Los deltas llegan ordenados por producto, así dos validaciones nunca se bloquean en orden inverso.
func (r *StockRepo) ApplyDeltas(ctx context.Context, deltas []entity.StockDelta) ([]entity.StockAdjustment, error) {
	out := make([]entity.StockAdjustment, 0, len(deltas))
	for _, d := range deltas {
		var before decimal.Decimal
		err := r.q.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1 FOR UPDATE`, d.ProductID).Scan(&before)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("producto %s: %w", d.ProductID, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("lock product stock: %w", err)
		}
		after := before.Add(d.Delta)
		if err := inventory.CheckStoredQuantity(after); err != nil {
			return nil, fmt.Errorf("producto %s: stock resultante %s: %w", d.ProductID, after, err)
		}
		if _, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, d.ProductID, after); err != nil {
			return nil, fmt.Errorf("update product stock: %w", err)
		}
		out = append(out, entity.StockAdjustment{
			ProductID:      d.ProductID,
			Delta:          d.Delta,
			QuantityBefore: before,
			QuantityAfter:  after,
		})
	}
	return out, nil
}
