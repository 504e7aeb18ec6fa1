package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ReconciliationUseCase orquesta el ciclo de vida de una sesión de inventario físico:
// creación (foto del catálogo), conteos, validación transaccional y cancelación.
type ReconciliationUseCase struct {
	txRunner    TxRunner
	sessionRepo repository.SessionRepository
	stockRepo   repository.StockRepository
	references  ReferenceGenerator
	log         zerolog.Logger
	now         func() time.Time
}

// NewReconciliationUseCase construye el caso de uso.
// sessionRepo y stockRepo se usan para lecturas fuera de transacción.
func NewReconciliationUseCase(
	txRunner TxRunner,
	sessionRepo repository.SessionRepository,
	stockRepo repository.StockRepository,
	references ReferenceGenerator,
	log zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txRunner:    txRunner,
		sessionRepo: sessionRepo,
		stockRepo:   stockRepo,
		references:  references,
		log:         log.With().Str("component", "reconciliation").Logger(),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReconciliationUseCase) WithClock(now func() time.Time) *ReconciliationUseCase {
	uc.now = now
	return uc
}

// CreateSessionInput entrada para crear una sesión.
type CreateSessionInput struct {
	Type        entity.SessionType
	CategoryIDs []string
	ProductIDs  []string
	CreatedBy   string
	Notes       string
}

// RecordCountInput entrada para registrar un conteo físico sobre una línea.
type RecordCountInput struct {
	LineID   string
	Quantity decimal.Decimal
	UserID   string
	Notes    string
}

// CreateSession resuelve el alcance contra el catálogo, toma la foto de cada producto
// en una línea y persiste sesión + líneas en una sola transacción.
func (uc *ReconciliationUseCase) CreateSession(ctx context.Context, in CreateSessionInput) (*entity.InventorySession, error) {
	if in.CreatedBy == "" || !in.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	scope := inventory.NormalizeScope(entity.SessionScope{
		Type:        in.Type,
		CategoryIDs: in.CategoryIDs,
		ProductIDs:  in.ProductIDs,
	})
	if err := inventory.ValidateScope(scope); err != nil {
		return nil, err
	}

	products, err := uc.stockRepo.ResolveProducts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("resolver alcance: %w", err)
	}
	if len(products) == 0 {
		return nil, domain.ErrEmptyScope
	}
	if scope.Type == entity.SessionTypeSpot && len(products) < len(scope.ProductIDs) {
		uc.log.Warn().
			Int("requested", len(scope.ProductIDs)).
			Int("resolved", len(products)).
			Msg("productos del alcance Spot no encontrados en el catálogo")
	}

	now := uc.now()
	session := &entity.InventorySession{
		ID:          uuid.New().String(),
		Reference:   uc.references.Next(now),
		Type:        scope.Type,
		CategoryIDs: scope.CategoryIDs,
		ProductIDs:  scope.ProductIDs,
		Status:      entity.SessionStatusInProgress,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		Notes:       in.Notes,
	}
	session.Lines = make([]*entity.InventoryLine, 0, len(products))
	for i, p := range products {
		session.Lines = append(session.Lines, &entity.InventoryLine{
			ID:                  uuid.New().String(),
			SessionID:           session.ID,
			Position:            i + 1,
			ProductID:           p.ID,
			ProductSKU:          p.SKU,
			ProductName:         p.Name,
			Location:            p.Location,
			TheoreticalQuantity: p.Quantity,
		})
	}
	session.LineCount = len(session.Lines)

	err = uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		return sessionRepo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("session_id", session.ID).
		Str("reference", session.Reference).
		Str("type", string(session.Type)).
		Int("lines", len(session.Lines)).
		Str("user_id", in.CreatedBy).
		Msg("sesión de inventario creada")
	return session, nil
}

// RecordCount registra (o reemplaza) el conteo de una línea y recalcula su varianza.
// El último conteo gana; no se acumula.
func (uc *ReconciliationUseCase) RecordCount(ctx context.Context, in RecordCountInput) (*entity.InventoryLine, error) {
	if err := inventory.CheckQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if in.LineID == "" || in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}

	var line *entity.InventoryLine
	err := uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		var err error
		line, err = sessionRepo.RecordLineCount(ctx, in.LineID, entity.LineCount{
			Quantity:  in.Quantity,
			CountedBy: in.UserID,
			Notes:     in.Notes,
			CountedAt: uc.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().
		Str("session_id", line.SessionID).
		Str("line_id", line.ID).
		Str("counted", line.CountedQuantity.String()).
		Str("variance", line.Variance.String()).
		Msg("conteo registrado")
	return line, nil
}

// ValidateSession cierra la sesión y aplica al catálogo la varianza de cada línea contada.
// Cambio de estado (compare-and-swap InProgress -> Validated), ajustes de stock y movimientos
// se confirman en la misma transacción: o todo o nada. Si otra validación gana la carrera
// se devuelve domain.ErrConflict y el catálogo no se toca.
func (uc *ReconciliationUseCase) ValidateSession(ctx context.Context, sessionID, userID string) (*entity.InventorySession, error) {
	if sessionID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Status != entity.SessionStatusInProgress {
		return nil, fmt.Errorf("%w: la sesión %s ya está %s", domain.ErrInvalidState, current.Reference, current.Status)
	}

	now := uc.now()
	var (
		validated   *entity.InventorySession
		adjustments []entity.StockAdjustment
	)
	err = uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		s, err := sessionRepo.TransitionStatus(ctx, sessionID, entity.SessionStatusInProgress, entity.SessionStatusValidated, userID, now)
		if err != nil {
			return err
		}
		// Conteos finales, leídos después de tomar el estado en exclusiva.
		lines, err := sessionRepo.ListLines(ctx, sessionID)
		if err != nil {
			return err
		}
		adjustments, err = stockRepo.ApplyDeltas(ctx, inventory.BuildDeltas(lines))
		if err != nil {
			return err
		}
		for _, a := range adjustments {
			mov := &entity.InventoryMovement{
				ID:             uuid.New().String(),
				SessionID:      s.ID,
				Reference:      s.Reference,
				ProductID:      a.ProductID,
				Type:           entity.MovementTypeADJUSTMENT,
				Quantity:       a.Delta,
				QuantityBefore: a.QuantityBefore,
				QuantityAfter:  a.QuantityAfter,
				CreatedAt:      now,
				CreatedBy:      userID,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}
		s.Lines = lines
		validated = s
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Warn().Str("session_id", sessionID).Str("user_id", userID).Msg("validación concurrente rechazada")
		}
		return nil, err
	}

	summary := inventory.Summarize(validated.Lines)
	validated.LineCount = summary.TotalLines
	validated.CountedCount = summary.CountedLines
	uc.log.Info().
		Str("session_id", validated.ID).
		Str("reference", validated.Reference).
		Str("user_id", userID).
		Int("adjustments", len(adjustments)).
		Int("counted", summary.CountedLines).
		Int("lines", summary.TotalLines).
		Msg("sesión de inventario validada")
	return validated, nil
}

// CancelSession termina la sesión sin efecto sobre el catálogo.
// Los conteos registrados se conservan para auditoría.
func (uc *ReconciliationUseCase) CancelSession(ctx context.Context, sessionID, userID string) (*entity.InventorySession, error) {
	if sessionID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Status != entity.SessionStatusInProgress {
		return nil, fmt.Errorf("%w: la sesión %s ya está %s", domain.ErrInvalidState, current.Reference, current.Status)
	}

	var cancelled *entity.InventorySession
	err = uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		s, err := sessionRepo.TransitionStatus(ctx, sessionID, entity.SessionStatusInProgress, entity.SessionStatusCancelled, userID, uc.now())
		if err != nil {
			return err
		}
		lines, err := sessionRepo.ListLines(ctx, sessionID)
		if err != nil {
			return err
		}
		s.Lines = lines
		cancelled = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary := inventory.Summarize(cancelled.Lines)
	cancelled.LineCount = summary.TotalLines
	cancelled.CountedCount = summary.CountedLines

	uc.log.Info().
		Str("session_id", cancelled.ID).
		Str("reference", cancelled.Reference).
		Str("user_id", userID).
		Msg("sesión de inventario cancelada")
	return cancelled, nil
}

// UpdateNotes reemplaza las notas de una sesión en curso.
func (uc *ReconciliationUseCase) UpdateNotes(ctx context.Context, sessionID, notes string) error {
	if sessionID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		return sessionRepo.UpdateNotes(ctx, sessionID, notes)
	})
}
