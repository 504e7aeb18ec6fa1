package repository

import (
	"context"

	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error)
	// Count total de movimientos; productID vacío cuenta todos.
	Count(ctx context.Context, productID string) (int, error)
}
