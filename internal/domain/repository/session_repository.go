package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
)

// SessionFilter filtros para el listado de sesiones.
type SessionFilter struct {
	Status *entity.SessionStatus
	Limit  int
	Offset int
}

// SessionRepository define el puerto de persistencia para sesiones de inventario y sus líneas.
// Los métodos de escritura deben ejecutarse dentro de una transacción (TxRunner).
type SessionRepository interface {
	// Create persiste la sesión y todas sus líneas como una sola unidad.
	// Devuelve domain.ErrInvalidInput si la sesión no trae líneas y
	// domain.ErrDuplicate si la referencia o un par (sesión, producto) ya existe.
	Create(ctx context.Context, session *entity.InventorySession) error

	// GetByID devuelve la sesión con sus líneas ordenadas; domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*entity.InventorySession, error)

	// List devuelve resúmenes (sin líneas, con LineCount/CountedCount) por fecha de creación descendente.
	List(ctx context.Context, filter SessionFilter) ([]*entity.InventorySession, error)

	// Count total de sesiones con el estado indicado (nil = todas), para el total del listado paginado.
	Count(ctx context.Context, status *entity.SessionStatus) (int, error)

	ListLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error)
	ListPendingLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error)

	// RecordLineCount aplica un conteo a la línea con la fila bloqueada.
	// domain.ErrNotFound si la línea no existe; domain.ErrInvalidState si la sesión ya no está InProgress.
	RecordLineCount(ctx context.Context, lineID string, count entity.LineCount) (*entity.InventoryLine, error)

	// TransitionStatus compare-and-swap del estado: solo cambia si el estado actual es from.
	// domain.ErrConflict si el estado actual es otro; domain.ErrNotFound si la sesión no existe.
	TransitionStatus(ctx context.Context, id string, from, to entity.SessionStatus, actor string, at time.Time) (*entity.InventorySession, error)

	// UpdateNotes solo mientras la sesión está InProgress (domain.ErrInvalidState en otro caso).
	UpdateNotes(ctx context.Context, id, notes string) error
}
