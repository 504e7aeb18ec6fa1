package dto

// DefaultPageLimit límite cuando la consulta no trae ?limit.
const DefaultPageLimit = 20

// PageRequest paginación de los listados (?limit=&offset=). Fuera de rango => 400.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica el límite por defecto si no vino en la consulta.
// No corrige valores fuera de rango: eso lo rechaza la validación.
func (p *PageRequest) DefaultPage() {
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
}

// PageResponse metadatos de página en respuestas. Total cuenta todo el filtro, no solo la página.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// NewPageResponse arma los metadatos a partir de la página pedida y el total.
func NewPageResponse(p PageRequest, total int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
