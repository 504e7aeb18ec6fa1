package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL (usable con pool o tx).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, reference, type, category_ids, product_ids, status, created_by, created_at,
	validated_by, validated_at, cancelled_by, cancelled_at, notes`

const lineColumns = `id, session_id, position, product_id, product_sku, product_name, location,
	theoretical_quantity, counted_quantity, counted_by, counted_at, count_notes, variance`

// Create inserta la sesión y sus líneas. Debe ejecutarse dentro de una tx para que sea atómico.
func (r *SessionRepo) Create(ctx context.Context, s *entity.InventorySession) error {
	if len(s.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO inventory_sessions (id, reference, type, category_ids, product_ids, status, created_by, created_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Reference, string(s.Type), nonNil(s.CategoryIDs), nonNil(s.ProductIDs),
		string(s.Status), s.CreatedBy, s.CreatedAt, s.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory session: %w", err)
	}

	lineQuery := `
		INSERT INTO inventory_lines (id, session_id, position, product_id, product_sku, product_name, location, theoretical_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, l := range s.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, s.ID, l.Position, l.ProductID, l.ProductSKU, l.ProductName, l.Location, l.TheoreticalQuantity,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert inventory line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la sesión con sus líneas.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.InventorySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM inventory_sessions WHERE id = $1`
	s, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get inventory session: %w", err)
	}
	lines, err := r.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	for _, l := range lines {
		if l.IsCounted() {
			s.CountedCount++
		}
	}
	s.LineCount = len(lines)
	return s, nil
}

// List devuelve resúmenes con conteo de líneas, por fecha de creación descendente.
func (r *SessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]*entity.InventorySession, error) {
	query := `
		SELECT s.id, s.reference, s.type, s.category_ids, s.product_ids, s.status, s.created_by, s.created_at,
			s.validated_by, s.validated_at, s.cancelled_by, s.cancelled_at, s.notes,
			COUNT(l.id), COUNT(l.counted_quantity)
		FROM inventory_sessions s
		LEFT JOIN inventory_lines l ON l.session_id = s.id`
	args := []any{}
	pos := 1
	if filter.Status != nil {
		query += fmt.Sprintf(" WHERE s.status = $%d", pos)
		args = append(args, string(*filter.Status))
		pos++
	}
	query += " GROUP BY s.id ORDER BY s.created_at DESC, s.reference DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, filter.Limit)
		pos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory sessions: %w", err)
	}
	defer rows.Close()
	list := []*entity.InventorySession{}
	for rows.Next() {
		var (
			s                        entity.InventorySession
			typ, status              string
			validatedBy, cancelledBy *string
		)
		if err := rows.Scan(
			&s.ID, &s.Reference, &typ, &s.CategoryIDs, &s.ProductIDs, &status, &s.CreatedBy, &s.CreatedAt,
			&validatedBy, &s.ValidatedAt, &cancelledBy, &s.CancelledAt, &s.Notes,
			&s.LineCount, &s.CountedCount,
		); err != nil {
			return nil, fmt.Errorf("scan inventory session: %w", err)
		}
		s.Type = entity.SessionType(typ)
		s.Status = entity.SessionStatus(status)
		s.ValidatedBy = deref(validatedBy)
		s.CancelledBy = deref(cancelledBy)
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Count total de sesiones, opcionalmente filtradas por estado.
func (r *SessionRepo) Count(ctx context.Context, status *entity.SessionStatus) (int, error) {
	query := `SELECT COUNT(*) FROM inventory_sessions`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inventory sessions: %w", err)
	}
	return n, nil
}

// ListLines líneas de la sesión ordenadas por posición.
func (r *SessionRepo) ListLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	return r.queryLines(ctx, `SELECT `+lineColumns+` FROM inventory_lines WHERE session_id = $1 ORDER BY position`, sessionID)
}

// ListPendingLines líneas sin conteo.
func (r *SessionRepo) ListPendingLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	return r.queryLines(ctx, `SELECT `+lineColumns+` FROM inventory_lines
		WHERE session_id = $1 AND counted_quantity IS NULL ORDER BY position`, sessionID)
}

// RecordLineCount bloquea la sesión en modo compartido (FOR SHARE) y la línea en exclusiva (FOR UPDATE).
// Una validación en curso tiene la fila de la sesión bloqueada en exclusiva, por lo que el conteo
// espera a que termine y después ve el estado Validated.
func (r *SessionRepo) RecordLineCount(ctx context.Context, lineID string, count entity.LineCount) (*entity.InventoryLine, error) {
	var sessionID string
	err := r.q.QueryRow(ctx, `SELECT session_id FROM inventory_lines WHERE id = $1`, lineID).Scan(&sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get inventory line session: %w", err)
	}

	var status string
	err = r.q.QueryRow(ctx, `SELECT status FROM inventory_sessions WHERE id = $1 FOR SHARE`, sessionID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock inventory session: %w", err)
	}
	if entity.SessionStatus(status) != entity.SessionStatusInProgress {
		return nil, domain.ErrInvalidState
	}

	l, err := scanLine(r.q.QueryRow(ctx, `SELECT `+lineColumns+` FROM inventory_lines WHERE id = $1 FOR UPDATE`, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock inventory line: %w", err)
	}
	l.ApplyCount(count)

	query := `
		UPDATE inventory_lines
		SET counted_quantity = $2, counted_by = $3, counted_at = $4, count_notes = $5, variance = $6
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query, l.ID, l.CountedQuantity, l.CountedBy, l.CountedAt, l.CountNotes, l.Variance)
	if err != nil {
		return nil, fmt.Errorf("update inventory line count: %w", err)
	}
	return l, nil
}

// TransitionStatus compare-and-swap con UPDATE ... WHERE status = from.
// El UPDATE deja la fila bloqueada hasta el fin de la tx: otra validación concurrente
// espera, re-evalúa el WHERE y no encuentra fila (ErrConflict).
func (r *SessionRepo) TransitionStatus(ctx context.Context, id string, from, to entity.SessionStatus, actor string, at time.Time) (*entity.InventorySession, error) {
	var set string
	switch to {
	case entity.SessionStatusValidated:
		set = "validated_by = $4, validated_at = $5"
	case entity.SessionStatusCancelled:
		set = "cancelled_by = $4, cancelled_at = $5"
	default:
		return nil, domain.ErrInvalidInput
	}
	query := `
		UPDATE inventory_sessions SET status = $3, ` + set + `
		WHERE id = $1 AND status = $2
		RETURNING ` + sessionColumns
	s, err := scanSession(r.q.QueryRow(ctx, query, id, string(from), string(to), actor, at))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transition inventory session: %w", err)
	}
	exists, err := r.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrConflict
}

// UpdateNotes actualiza notas solo si la sesión sigue InProgress.
func (r *SessionRepo) UpdateNotes(ctx context.Context, id, notes string) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_sessions SET notes = $2 WHERE id = $1 AND status = $3`,
		id, notes, string(entity.SessionStatusInProgress))
	if err != nil {
		return fmt.Errorf("update inventory session notes: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidState
}

func (r *SessionRepo) exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_sessions WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("check inventory session: %w", err)
	}
	return ok, nil
}

func (r *SessionRepo) queryLines(ctx context.Context, query string, args ...any) ([]*entity.InventoryLine, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory lines: %w", err)
	}
	defer rows.Close()
	list := []*entity.InventoryLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanSession(row pgx.Row) (*entity.InventorySession, error) {
	var (
		s                        entity.InventorySession
		typ, status              string
		validatedBy, cancelledBy *string
	)
	err := row.Scan(
		&s.ID, &s.Reference, &typ, &s.CategoryIDs, &s.ProductIDs, &status, &s.CreatedBy, &s.CreatedAt,
		&validatedBy, &s.ValidatedAt, &cancelledBy, &s.CancelledAt, &s.Notes,
	)
	if err != nil {
		return nil, err
	}
	s.Type = entity.SessionType(typ)
	s.Status = entity.SessionStatus(status)
	s.ValidatedBy = deref(validatedBy)
	s.CancelledBy = deref(cancelledBy)
	return &s, nil
}

func scanLine(row pgx.Row) (*entity.InventoryLine, error) {
	var (
		l                     entity.InventoryLine
		countedBy, countNotes *string
	)
	err := row.Scan(
		&l.ID, &l.SessionID, &l.Position, &l.ProductID, &l.ProductSKU, &l.ProductName, &l.Location,
		&l.TheoreticalQuantity, &l.CountedQuantity, &countedBy, &l.CountedAt, &countNotes, &l.Variance,
	)
	if err != nil {
		return nil, err
	}
	l.CountedBy = deref(countedBy)
	l.CountNotes = deref(countNotes)
	return &l, nil
}
