package dto

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total,omitempty"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse página con total conocido; HasMore indica si queda al menos otra página.
func NewPageResponse(limit, offset, total int) PageResponse {
	return PageResponse{Limit: limit, Offset: offset, Total: total, HasMore: offset+limit < total}
}

// ErrorResponse cuerpo de error HTTP. Field identifica el campo rechazado en errores de validación.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
