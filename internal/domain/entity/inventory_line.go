package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLine registro teórico vs contado de un producto dentro de una sesión.
// ProductSKU, ProductName, Location y TheoreticalQuantity son una foto del catálogo
// tomada al crear la sesión; no se recalculan.
type InventoryLine struct {
	ID                  string
	SessionID           string
	Position            int
	ProductID           string
	ProductSKU          string
	ProductName         string
	Location            string
	TheoreticalQuantity decimal.Decimal
	CountedQuantity     *decimal.Decimal // nil = no contado
	CountedBy           string
	CountedAt           *time.Time
	CountNotes          string
	Variance            *decimal.Decimal // CountedQuantity - TheoreticalQuantity
}

// LineCount datos de un conteo físico.
type LineCount struct {
	Quantity  decimal.Decimal
	CountedBy string
	Notes     string
	CountedAt time.Time
}

// IsCounted indica si la línea ya tiene un conteo.
func (l *InventoryLine) IsCounted() bool {
	return l.CountedQuantity != nil
}

// ApplyCount reemplaza el conteo anterior (no acumula) y recalcula la varianza.
func (l *InventoryLine) ApplyCount(c LineCount) {
	qty := c.Quantity
	variance := qty.Sub(l.TheoreticalQuantity)
	at := c.CountedAt
	l.CountedQuantity = &qty
	l.Variance = &variance
	l.CountedBy = c.CountedBy
	l.CountedAt = &at
	l.CountNotes = c.Notes
}
