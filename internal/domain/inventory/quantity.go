package inventory

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/shopspring/decimal"
)

// ParseQuantity convierte la cantidad contada recibida en JSON (número o texto numérico)
// a decimal. Vacío, null, texto no numérico o negativo => domain.ErrInvalidQuantity.
func ParseQuantity(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, domain.ErrInvalidQuantity
		}
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	if err := CheckQuantity(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Las cantidades se persisten como NUMERIC(18,4): 4 decimales y 14 dígitos enteros.
const QuantityScale = 4

var maxQuantity = decimal.New(1, 14)

// CheckQuantity rechaza cantidades negativas o fuera de rango.
func CheckQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	return CheckStoredQuantity(q)
}

// CheckStoredQuantity valida que q quepa en la columna (admite negativos: varianzas y deltas).
// "1.50000" es válido; "0.00001" no.
func CheckStoredQuantity(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return domain.ErrInvalidQuantity
	}
	if q.Abs().GreaterThanOrEqual(maxQuantity) {
		return domain.ErrInvalidQuantity
	}
	return nil
}
