package inventory

import (
	"context"

	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
)

// SessionQueryUseCase lecturas de sesiones, líneas pendientes, resumen y movimientos.
// Nada de lo que devuelve se persiste por separado: todo se deriva de las líneas guardadas.
type SessionQueryUseCase struct {
	sessionRepo repository.SessionRepository
	movRepo     repository.InventoryMovementRepository
}

// NewSessionQueryUseCase construye el caso de uso.
func NewSessionQueryUseCase(sessionRepo repository.SessionRepository, movRepo repository.InventoryMovementRepository) *SessionQueryUseCase {
	return &SessionQueryUseCase{sessionRepo: sessionRepo, movRepo: movRepo}
}

// ListAll lista las sesiones por fecha de creación descendente.
func (uc *SessionQueryUseCase) ListAll(ctx context.Context, status *entity.SessionStatus, limit, offset int) ([]*entity.InventorySession, error) {
	if status != nil && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.sessionRepo.List(ctx, repository.SessionFilter{Status: status, Limit: limit, Offset: offset})
}

// CountSessions total de sesiones del listado (mismo filtro que ListAll).
func (uc *SessionQueryUseCase) CountSessions(ctx context.Context, status *entity.SessionStatus) (int, error) {
	if status != nil && !status.Valid() {
		return 0, domain.ErrInvalidInput
	}
	return uc.sessionRepo.Count(ctx, status)
}

// Get devuelve la sesión con sus líneas.
func (uc *SessionQueryUseCase) Get(ctx context.Context, id string) (*entity.InventorySession, error) {
	s, err := uc.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := inventory.Summarize(s.Lines)
	s.LineCount = summary.TotalLines
	s.CountedCount = summary.CountedLines
	return s, nil
}

// PendingLines devuelve las líneas sin conteo. domain.ErrNotFound si la sesión no existe.
func (uc *SessionQueryUseCase) PendingLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return uc.sessionRepo.ListPendingLines(ctx, sessionID)
}

// Summary calcula las cifras agregadas de la sesión.
func (uc *SessionQueryUseCase) Summary(ctx context.Context, sessionID string) (*entity.InventorySession, inventory.Summary, error) {
	s, err := uc.Get(ctx, sessionID)
	if err != nil {
		return nil, inventory.Summary{}, err
	}
	return s, inventory.Summarize(s.Lines), nil
}

// ListMovements movimientos de ajuste generados por validaciones, más recientes primero.
func (uc *SessionQueryUseCase) ListMovements(ctx context.Context, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movRepo.List(ctx, limit, offset)
}

// ListProductMovements movimientos de un producto.
func (uc *SessionQueryUseCase) ListProductMovements(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByProduct(ctx, productID, limit, offset)
}

// CountMovements total de movimientos; productID vacío cuenta todos.
func (uc *SessionQueryUseCase) CountMovements(ctx context.Context, productID string) (int, error) {
	return uc.movRepo.Count(ctx, productID)
}
