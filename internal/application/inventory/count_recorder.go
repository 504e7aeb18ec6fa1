package inventory

import (
	"context"

	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineCounter es lo que necesita el CountRecorder del motor (lo implementa *ReconciliationUseCase).
type LineCounter interface {
	RecordCount(ctx context.Context, in RecordCountInput) (*entity.InventoryLine, error)
}

// CountRecorder recorre las líneas de una sesión durante el conteo interactivo.
// No guarda estado autoritativo: perder el cursor solo afecta la comodidad del operador.
type CountRecorder struct {
	counter LineCounter
	lines   []*entity.InventoryLine
	cursor  int
}

// NewCountRecorder posiciona el cursor en la primera línea no contada (o en la primera
// línea si todas están contadas), para que una sesión retomada continúe donde quedó.
func NewCountRecorder(counter LineCounter, session *entity.InventorySession) *CountRecorder {
	r := &CountRecorder{counter: counter, lines: append([]*entity.InventoryLine(nil), session.Lines...)}
	for i, l := range r.lines {
		if !l.IsCounted() {
			r.cursor = i
			return r
		}
	}
	return r
}

// Current línea bajo el cursor; nil si la sesión no tiene líneas.
func (r *CountRecorder) Current() *entity.InventoryLine {
	if len(r.lines) == 0 {
		return nil
	}
	return r.lines[r.cursor]
}

// Position índice (base 0) del cursor.
func (r *CountRecorder) Position() int { return r.cursor }

// Len número de líneas de la sesión.
func (r *CountRecorder) Len() int { return len(r.lines) }

// Next avanza sin registrar nada. false si ya está en la última línea.
func (r *CountRecorder) Next() bool {
	if r.cursor >= len(r.lines)-1 {
		return false
	}
	r.cursor++
	return true
}

// Previous retrocede sin registrar nada. false si ya está en la primera línea.
func (r *CountRecorder) Previous() bool {
	if r.cursor == 0 {
		return false
	}
	r.cursor--
	return true
}

// MoveTo lleva el cursor a pos (base 0). false si pos está fuera de la sesión.
func (r *CountRecorder) MoveTo(pos int) bool {
	if pos < 0 || pos >= r.Len() {
		return false
	}
	for r.cursor < pos {
		r.Next()
	}
	for r.cursor > pos {
		r.Previous()
	}
	return true
}

// Progress líneas contadas y total.
func (r *CountRecorder) Progress() (counted, total int) {
	for _, l := range r.lines {
		if l.IsCounted() {
			counted++
		}
	}
	return counted, len(r.lines)
}

// Complete indica si todas las líneas tienen conteo.
func (r *CountRecorder) Complete() bool {
	counted, total := r.Progress()
	return total > 0 && counted == total
}

// Record registra el conteo de la línea actual y avanza el cursor.
// done es true cuando la línea registrada era la última: el llamador puede ofrecer la validación.
func (r *CountRecorder) Record(ctx context.Context, qty decimal.Decimal, userID, notes string) (line *entity.InventoryLine, done bool, err error) {
	current := r.Current()
	if current == nil {
		return nil, false, domain.ErrNotFound
	}
	line, err = r.counter.RecordCount(ctx, RecordCountInput{
		LineID:   current.ID,
		Quantity: qty,
		UserID:   userID,
		Notes:    notes,
	})
	if err != nil {
		return nil, false, err
	}
	r.lines[r.cursor] = line
	if r.cursor == len(r.lines)-1 {
		return line, true, nil
	}
	r.cursor++
	return line, false, nil
}
