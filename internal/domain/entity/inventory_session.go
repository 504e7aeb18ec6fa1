package entity

import "time"

// SessionType alcance de una sesión de inventario.
type SessionType string

const (
	SessionTypeFull   SessionType = "Full"   // todo el catálogo activo
	SessionTypeCyclic SessionType = "Cyclic" // tournant: por categorías
	SessionTypeSpot   SessionType = "Spot"   // lista explícita de productos
)

// Valid indica si el tipo es uno de los conocidos.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeFull, SessionTypeCyclic, SessionTypeSpot:
		return true
	}
	return false
}

// SessionStatus estado de la máquina de estados de la sesión.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "InProgress"
	SessionStatusValidated  SessionStatus = "Validated"
	SessionStatusCancelled  SessionStatus = "Cancelled"
)

// IsTerminal indica si no existe transición de salida desde el estado.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusValidated || s == SessionStatusCancelled
}

// Valid indica si el estado es uno de los conocidos.
func (s SessionStatus) Valid() bool {
	return s == SessionStatusInProgress || s.IsTerminal()
}

// SessionScope productos que cubre una sesión. CategoryIDs solo aplica a Cyclic y ProductIDs a Spot.
type SessionScope struct {
	Type        SessionType
	CategoryIDs []string
	ProductIDs  []string
}

// InventorySession una sesión de conteo físico con alcance fijo.
// Las líneas se crean junto con la sesión y no cambian de tamaño después.
type InventorySession struct {
	ID          string
	Reference   string
	Type        SessionType
	CategoryIDs []string
	ProductIDs  []string
	Status      SessionStatus
	CreatedBy   string
	CreatedAt   time.Time
	ValidatedBy string
	ValidatedAt *time.Time
	CancelledBy string
	CancelledAt *time.Time
	Notes       string
	Lines       []*InventoryLine

	// Contadores para listados (no se persisten, se derivan de las líneas).
	LineCount    int
	CountedCount int
}

// Scope devuelve el alcance con el que se materializaron las líneas.
func (s *InventorySession) Scope() SessionScope {
	return SessionScope{Type: s.Type, CategoryIDs: s.CategoryIDs, ProductIDs: s.ProductIDs}
}
