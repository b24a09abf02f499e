package entity

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Code es la clave natural para el upsert de importación; ID lo asigna el almacén que crea el registro.
type Product struct {
	ID          string           `json:"id"`
	Code        string           `json:"code"`
	Description string           `json:"description"`
	Reference   string           `json:"reference"`
	Colors      []string         `json:"colors"`
	ImageURL    string           `json:"image_url"`
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory"`
	Line        string           `json:"line"`
	Amperage    *decimal.Decimal `json:"amperage,omitempty"`
	Details     *string          `json:"details,omitempty"`
	Origin      Origin           `json:"origin,omitempty"`
}

// Código y descripción del producto sustituto cuando un ítem referencia un producto borrado.
const (
	RemovedProductCode        = "N/A"
	RemovedProductDescription = "Produto removido"
)

// RemovedProduct devuelve el marcador usado al reconstruir pedidos cuyo producto ya no existe.
func RemovedProduct(id string) Product {
	return Product{
		ID:          id,
		Code:        RemovedProductCode,
		Description: RemovedProductDescription,
		Colors:      []string{},
	}
}
