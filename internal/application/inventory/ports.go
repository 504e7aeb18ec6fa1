package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de reconciliación: si fn devuelve error no queda ningún efecto visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sessionRepo repository.SessionRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}

// ReferenceGenerator genera la referencia legible y única de una sesión.
type ReferenceGenerator interface {
	Next(now time.Time) string
}
