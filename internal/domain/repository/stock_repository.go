package repository

import (
	"context"

	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
)

// StockRepository es el puerto hacia el catálogo de stock autoritativo.
type StockRepository interface {
	// ResolveProducts devuelve los productos que cubre el alcance, ordenados por ubicación y SKU.
	// Full: todos los activos; Cyclic: activos de las categorías; Spot: los ids indicados.
	ResolveProducts(ctx context.Context, scope entity.SessionScope) ([]entity.CatalogProduct, error)

	// ApplyDeltas suma cada delta a la cantidad del producto bloqueando las filas (SELECT FOR UPDATE).
	// Todo o nada: debe ejecutarse dentro de la transacción de validación.
	ApplyDeltas(ctx context.Context, deltas []entity.StockDelta) ([]entity.StockAdjustment, error)
}
