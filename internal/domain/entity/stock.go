package entity

import "github.com/shopspring/decimal"

// StockDelta es el ajuste que la validación aplica sobre un producto del catálogo.
type StockDelta struct {
	ProductID string
	Delta     decimal.Decimal
}

// StockAdjustment resultado de aplicar un StockDelta: cantidad antes y después del ajuste.
type StockAdjustment struct {
	ProductID      string
	Delta          decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
}
