package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación en memoria de SessionRepository.
type SessionRepo struct {
	s  *Store
	tx bool
}

// Create persiste sesión y líneas; falla sin efecto si alguna restricción no se cumple.
func (r *SessionRepo) Create(_ context.Context, session *entity.InventorySession) error {
	defer r.s.lock(r.tx)()
	st := r.s.st

	if len(session.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	if _, ok := st.sessions[session.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := st.references[session.Reference]; ok {
		return domain.ErrDuplicate
	}
	seen := make(map[string]struct{}, len(session.Lines))
	for _, l := range session.Lines {
		if _, ok := seen[l.ProductID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.lines[l.ID]; ok {
			return domain.ErrDuplicate
		}
		seen[l.ProductID] = struct{}{}
	}

	st.sessions[session.ID] = copySession(session)
	st.references[session.Reference] = session.ID
	ids := make([]string, 0, len(session.Lines))
	for _, l := range session.Lines {
		st.lines[l.ID] = copyLine(l)
		ids = append(ids, l.ID)
	}
	st.bySession[session.ID] = ids
	return nil
}

// GetByID devuelve la sesión con sus líneas.
func (r *SessionRepo) GetByID(_ context.Context, id string) (*entity.InventorySession, error) {
	defer r.s.lock(r.tx)()
	s, ok := r.s.st.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copySession(s)
	out.Lines = r.linesOf(id, false)
	out.LineCount, out.CountedCount = counts(out.Lines)
	return out, nil
}

// List devuelve resúmenes por fecha de creación descendente.
func (r *SessionRepo) List(_ context.Context, filter repository.SessionFilter) ([]*entity.InventorySession, error) {
	defer r.s.lock(r.tx)()
	list := make([]*entity.InventorySession, 0, len(r.s.st.sessions))
	for id, s := range r.s.st.sessions {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		out := copySession(s)
		out.LineCount, out.CountedCount = counts(r.linesOf(id, false))
		list = append(list, out)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Reference > list[j].Reference
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

// Count sesiones con el estado indicado.
func (r *SessionRepo) Count(_ context.Context, status *entity.SessionStatus) (int, error) {
	defer r.s.lock(r.tx)()
	n := 0
	for _, s := range r.s.st.sessions {
		if status == nil || s.Status == *status {
			n++
		}
	}
	return n, nil
}

// ListLines líneas de la sesión en orden.
func (r *SessionRepo) ListLines(_ context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	defer r.s.lock(r.tx)()
	return r.linesOf(sessionID, false), nil
}

// ListPendingLines líneas sin conteo en orden.
func (r *SessionRepo) ListPendingLines(_ context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	defer r.s.lock(r.tx)()
	return r.linesOf(sessionID, true), nil
}

// RecordLineCount aplica el conteo si la sesión sigue en curso.
func (r *SessionRepo) RecordLineCount(_ context.Context, lineID string, count entity.LineCount) (*entity.InventoryLine, error) {
	defer r.s.lock(r.tx)()
	l, ok := r.s.st.lines[lineID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s, ok := r.s.st.sessions[l.SessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.Status != entity.SessionStatusInProgress {
		return nil, domain.ErrInvalidState
	}
	l.ApplyCount(count)
	return copyLine(l), nil
}

// TransitionStatus compare-and-swap del estado.
func (r *SessionRepo) TransitionStatus(_ context.Context, id string, from, to entity.SessionStatus, actor string, at time.Time) (*entity.InventorySession, error) {
	defer r.s.lock(r.tx)()
	s, ok := r.s.st.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.Status != from {
		return nil, domain.ErrConflict
	}
	s.Status = to
	switch to {
	case entity.SessionStatusValidated:
		s.ValidatedBy = actor
		s.ValidatedAt = &at
	case entity.SessionStatusCancelled:
		s.CancelledBy = actor
		s.CancelledAt = &at
	}
	out := copySession(s)
	out.LineCount, out.CountedCount = counts(r.linesOf(id, false))
	return out, nil
}

// UpdateNotes reemplaza las notas mientras la sesión está en curso.
func (r *SessionRepo) UpdateNotes(_ context.Context, id, notes string) error {
	defer r.s.lock(r.tx)()
	s, ok := r.s.st.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.Status != entity.SessionStatusInProgress {
		return domain.ErrInvalidState
	}
	s.Notes = notes
	return nil
}

// linesOf asume el mutex tomado.
func (r *SessionRepo) linesOf(sessionID string, pendingOnly bool) []*entity.InventoryLine {
	ids := r.s.st.bySession[sessionID]
	out := make([]*entity.InventoryLine, 0, len(ids))
	for _, id := range ids {
		l := r.s.st.lines[id]
		if pendingOnly && l.IsCounted() {
			continue
		}
		out = append(out, copyLine(l))
	}
	return out
}

func counts(lines []*entity.InventoryLine) (total, counted int) {
	for _, l := range lines {
		if l.IsCounted() {
			counted++
		}
	}
	return len(lines), counted
}
