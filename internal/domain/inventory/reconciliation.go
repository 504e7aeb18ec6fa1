package inventory

import (
	"sort"

	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateScope verifica que el alcance sea coherente con el tipo de sesión.
// Cyclic necesita al menos una categoría y Spot al menos un producto.
func ValidateScope(scope entity.SessionScope) error {
	switch scope.Type {
	case entity.SessionTypeFull:
		return nil
	case entity.SessionTypeCyclic:
		if len(compact(scope.CategoryIDs)) == 0 {
			return domain.ErrEmptyScope
		}
		return nil
	case entity.SessionTypeSpot:
		if len(compact(scope.ProductIDs)) == 0 {
			return domain.ErrEmptyScope
		}
		return nil
	}
	return domain.ErrInvalidInput
}

// NormalizeScope elimina ids vacíos y duplicados conservando el orden de entrada.
func NormalizeScope(scope entity.SessionScope) entity.SessionScope {
	out := entity.SessionScope{Type: scope.Type}
	switch scope.Type {
	case entity.SessionTypeCyclic:
		out.CategoryIDs = compact(scope.CategoryIDs)
	case entity.SessionTypeSpot:
		out.ProductIDs = compact(scope.ProductIDs)
	}
	return out
}

func compact(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Variance = contado - teórico.
func Variance(counted, theoretical decimal.Decimal) decimal.Decimal {
	return counted.Sub(theoretical)
}

// BuildDeltas calcula los ajustes de stock de una sesión.
// Solo las líneas contadas con varianza distinta de cero generan delta; las no contadas
// conservan su cantidad teórica. El resultado se ordena por producto para que los
// bloqueos de fila se tomen siempre en el mismo orden.
func BuildDeltas(lines []*entity.InventoryLine) []entity.StockDelta {
	deltas := make([]entity.StockDelta, 0, len(lines))
	for _, l := range lines {
		if !l.IsCounted() {
			continue
		}
		v := Variance(*l.CountedQuantity, l.TheoreticalQuantity)
		if v.IsZero() {
			continue
		}
		deltas = append(deltas, entity.StockDelta{ProductID: l.ProductID, Delta: v})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].ProductID < deltas[j].ProductID })
	return deltas
}

// Summary cifras agregadas de una sesión, derivadas siempre de las líneas.
type Summary struct {
	TotalLines        int
	CountedLines      int
	PendingLines      int
	PositiveVariances int
	NegativeVariances int
	TotalVariance     decimal.Decimal
}

// Summarize recorre las líneas y calcula el resumen.
func Summarize(lines []*entity.InventoryLine) Summary {
	s := Summary{TotalLines: len(lines), TotalVariance: decimal.Zero}
	for _, l := range lines {
		if !l.IsCounted() {
			s.PendingLines++
			continue
		}
		s.CountedLines++
		v := Variance(*l.CountedQuantity, l.TheoreticalQuantity)
		switch v.Sign() {
		case 1:
			s.PositiveVariances++
		case -1:
			s.NegativeVariances++
		}
		s.TotalVariance = s.TotalVariance.Add(v)
	}
	return s
}

// PendingLines devuelve las líneas sin conteo, en el orden de la sesión.
func PendingLines(lines []*entity.InventoryLine) []*entity.InventoryLine {
	out := make([]*entity.InventoryLine, 0, len(lines))
	for _, l := range lines {
		if !l.IsCounted() {
			out = append(out, l)
		}
	}
	return out
}
