package dto

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateSessionRequest body para POST /api/inventory/sessions.
type CreateSessionRequest struct {
	Type        SessionTypeInput `json:"type" validate:"required,oneof=Full Cyclic Spot" swaggertype:"string"`
	CategoryIDs []string         `json:"category_ids,omitempty"`
	ProductIDs  []string         `json:"product_ids,omitempty"`
	Notes       string           `json:"notes,omitempty" validate:"max=1000"`
}

// SessionTypeInput acepta el nombre del tipo o el código numérico del formulario de alta
// (0 = Full, 1 = Cyclic, 2 = Spot).
type SessionTypeInput string

var sessionTypeCodes = []entity.SessionType{entity.SessionTypeFull, entity.SessionTypeCyclic, entity.SessionTypeSpot}

// UnmarshalJSON traduce el código numérico; un código desconocido queda como texto y lo rechaza oneof.
func (t *SessionTypeInput) UnmarshalJSON(b []byte) error {
	var code int
	if err := json.Unmarshal(b, &code); err == nil {
		if code >= 0 && code < len(sessionTypeCodes) {
			*t = SessionTypeInput(sessionTypeCodes[code])
		} else {
			*t = SessionTypeInput(strconv.Itoa(code))
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = SessionTypeInput(s)
	return nil
}

// RecordCountRequest body para POST /api/inventory/lines/:id/count.
// CountedQuantity acepta número JSON o string numérico ("12.5").
type RecordCountRequest struct {
	CountedQuantity json.RawMessage `json:"counted_quantity" swaggertype:"number"`
	Notes           string          `json:"notes,omitempty" validate:"max=500"`
}

// CursorCountRequest body para POST /api/inventory/sessions/:id/cursor/count.
// Sin Position se cuenta la línea donde se retoma (la primera pendiente).
type CursorCountRequest struct {
	Position        *int            `json:"position,omitempty" validate:"omitempty,min=0"`
	CountedQuantity json.RawMessage `json:"counted_quantity" swaggertype:"number"`
	Notes           string          `json:"notes,omitempty" validate:"max=500"`
}

// UpdateNotesRequest body para PATCH /api/inventory/sessions/:id/notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// SessionListQuery filtro de GET /api/inventory/sessions; la paginación va en PageRequest.
type SessionListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=InProgress Validated Cancelled"`
}

// InventoryLineResponse línea de conteo.
type InventoryLineResponse struct {
	ID                  string           `json:"id"`
	SessionID           string           `json:"session_id"`
	Position            int              `json:"position"`
	ProductID           string           `json:"product_id"`
	ProductSKU          string           `json:"product_sku"`
	ProductName         string           `json:"product_name"`
	Location            string           `json:"location"`
	TheoreticalQuantity decimal.Decimal  `json:"theoretical_quantity"`
	CountedQuantity     *decimal.Decimal `json:"counted_quantity"`
	Variance            *decimal.Decimal `json:"variance"`
	CountedBy           string           `json:"counted_by,omitempty"`
	CountedAt           *time.Time       `json:"counted_at,omitempty"`
	CountNotes          string           `json:"count_notes,omitempty"`
}

// InventorySessionResponse sesión; Lines solo viene en el detalle.
type InventorySessionResponse struct {
	ID           string                  `json:"id"`
	Reference    string                  `json:"reference"`
	Type         string                  `json:"type"`
	CategoryIDs  []string                `json:"category_ids,omitempty"`
	ProductIDs   []string                `json:"product_ids,omitempty"`
	Status       string                  `json:"status"`
	CreatedBy    string                  `json:"created_by"`
	CreatedAt    time.Time               `json:"created_at"`
	ValidatedBy  string                  `json:"validated_by,omitempty"`
	ValidatedAt  *time.Time              `json:"validated_at,omitempty"`
	CancelledBy  string                  `json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time              `json:"cancelled_at,omitempty"`
	Notes        string                  `json:"notes,omitempty"`
	LineCount    int                     `json:"line_count"`
	CountedCount int                     `json:"counted_count"`
	Lines        []InventoryLineResponse `json:"lines,omitempty"`
}

// SessionSummaryResponse cifras agregadas de una sesión.
type SessionSummaryResponse struct {
	SessionID         string          `json:"session_id"`
	Reference         string          `json:"reference"`
	Status            string          `json:"status"`
	TotalLines        int             `json:"total_lines"`
	CountedLines      int             `json:"counted_lines"`
	PendingLines      int             `json:"pending_lines"`
	PositiveVariances int             `json:"positive_variances"`
	NegativeVariances int             `json:"negative_variances"`
	TotalVariance     decimal.Decimal `json:"total_variance"`
}

// CountCursorResponse posición desde la que se retoma el conteo.
type CountCursorResponse struct {
	SessionID    string                 `json:"session_id"`
	Position     int                    `json:"position"`
	CountedLines int                    `json:"counted_lines"`
	TotalLines   int                    `json:"total_lines"`
	Complete     bool                   `json:"complete"`
	Current      *InventoryLineResponse `json:"current,omitempty"`
}

// CursorCountResponse línea registrada y cursor avanzado. Done indica que era la última línea.
type CursorCountResponse struct {
	Line   InventoryLineResponse `json:"line"`
	Done   bool                  `json:"done"`
	Cursor CountCursorResponse   `json:"cursor"`
}

// InventoryMovementResponse movimiento de ajuste.
type InventoryMovementResponse struct {
	ID             string          `json:"id"`
	SessionID      string          `json:"session_id"`
	Reference      string          `json:"reference"`
	ProductID      string          `json:"product_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by"`
}

// ListResponse envoltorio de listados paginados.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// ToInventoryLineResponse mapea una línea.
func ToInventoryLineResponse(l *entity.InventoryLine) InventoryLineResponse {
	return InventoryLineResponse{
		ID:                  l.ID,
		SessionID:           l.SessionID,
		Position:            l.Position,
		ProductID:           l.ProductID,
		ProductSKU:          l.ProductSKU,
		ProductName:         l.ProductName,
		Location:            l.Location,
		TheoreticalQuantity: l.TheoreticalQuantity,
		CountedQuantity:     l.CountedQuantity,
		Variance:            l.Variance,
		CountedBy:           l.CountedBy,
		CountedAt:           l.CountedAt,
		CountNotes:          l.CountNotes,
	}
}

// ToInventoryLineResponses mapea una lista de líneas (nunca nil).
func ToInventoryLineResponses(lines []*entity.InventoryLine) []InventoryLineResponse {
	out := make([]InventoryLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, ToInventoryLineResponse(l))
	}
	return out
}

// ToInventorySessionResponse mapea una sesión; withLines incluye el detalle de líneas.
func ToInventorySessionResponse(s *entity.InventorySession, withLines bool) InventorySessionResponse {
	resp := InventorySessionResponse{
		ID:           s.ID,
		Reference:    s.Reference,
		Type:         string(s.Type),
		CategoryIDs:  s.CategoryIDs,
		ProductIDs:   s.ProductIDs,
		Status:       string(s.Status),
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
		ValidatedBy:  s.ValidatedBy,
		ValidatedAt:  s.ValidatedAt,
		CancelledBy:  s.CancelledBy,
		CancelledAt:  s.CancelledAt,
		Notes:        s.Notes,
		LineCount:    s.LineCount,
		CountedCount: s.CountedCount,
	}
	if withLines {
		resp.Lines = ToInventoryLineResponses(s.Lines)
	}
	return resp
}

// ToSessionSummaryResponse mapea el resumen.
func ToSessionSummaryResponse(s *entity.InventorySession, sum inventory.Summary) SessionSummaryResponse {
	return SessionSummaryResponse{
		SessionID:         s.ID,
		Reference:         s.Reference,
		Status:            string(s.Status),
		TotalLines:        sum.TotalLines,
		CountedLines:      sum.CountedLines,
		PendingLines:      sum.PendingLines,
		PositiveVariances: sum.PositiveVariances,
		NegativeVariances: sum.NegativeVariances,
		TotalVariance:     sum.TotalVariance,
	}
}

// ToInventoryMovementResponses mapea movimientos (nunca nil).
func ToInventoryMovementResponses(list []*entity.InventoryMovement) []InventoryMovementResponse {
	out := make([]InventoryMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, InventoryMovementResponse{
			ID:             m.ID,
			SessionID:      m.SessionID,
			Reference:      m.Reference,
			ProductID:      m.ProductID,
			Type:           m.Type,
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			CreatedAt:      m.CreatedAt,
			CreatedBy:      m.CreatedBy,
		})
	}
	return out
}
