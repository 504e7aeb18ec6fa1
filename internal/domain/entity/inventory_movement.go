package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste por inventario físico
)

// InventoryMovement representa un movimiento de stock derivado de una sesión validada.
// Reference es la referencia de la sesión que originó el ajuste.
type InventoryMovement struct {
	ID             string
	SessionID      string
	Reference      string
	ProductID      string
	Type           string
	Quantity       decimal.Decimal // positivo sobrante, negativo faltante
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	CreatedAt      time.Time
	CreatedBy      string
}
