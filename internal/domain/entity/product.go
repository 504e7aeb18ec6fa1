package entity

import "github.com/shopspring/decimal"

// CatalogProduct es la vista del catálogo de stock que consume la reconciliación.
// Quantity es la cantidad teórica (autoritativa) en el momento de la lectura.
type CatalogProduct struct {
	ID         string
	SKU        string // código único
	Name       string
	Location   string // ubicación física (pasillo/estante), puede ser vacía
	CategoryID string
	Active     bool
	Quantity   decimal.Decimal
}
