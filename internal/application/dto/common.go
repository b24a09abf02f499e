package dto

// PageRequest paginación para listados. Limit 0 = hasta el final.
type PageRequest struct {
	Limit  int `json:"limit" query:"limit" validate:"min=0,max=500"`
	Offset int `json:"offset" query:"offset" validate:"min=0"`
}

// DefaultPage corrige valores negativos.
func (p *PageRequest) DefaultPage() {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Paginate recorta items a la página pedida; Total es siempre el tamaño completo.
func Paginate[T any](items []T, p PageRequest) ([]T, PageResponse) {
	p.DefaultPage()
	total := len(items)
	start := min(p.Offset, total)
	end := total
	if p.Limit > 0 {
		end = min(start+p.Limit, total)
	}
	page := items[start:end]
	return page, PageResponse{Limit: len(page), Offset: start, Total: total}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
