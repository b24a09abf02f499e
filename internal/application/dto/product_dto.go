package dto

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code        string           `json:"code" validate:"required,min=1,max=100"`
	Description string           `json:"description" validate:"max=500"`
	Reference   string           `json:"reference" validate:"max=100"`
	Colors      []string         `json:"colors" validate:"omitempty,dive,required"`
	ImageURL    string           `json:"image_url" validate:"omitempty,url"`
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory"`
	Line        string           `json:"line"`
	Amperage    *decimal.Decimal `json:"amperage"`
	Details     *string          `json:"details"`
}

// UpdateProductRequest entrada para actualizar un producto; nil = sin cambio.
type UpdateProductRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Reference   *string          `json:"reference"`
	Colors      []string         `json:"colors" validate:"omitempty,dive,required"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	Category    *string          `json:"category"`
	Subcategory *string          `json:"subcategory"`
	Line        *string          `json:"line"`
	Amperage    *decimal.Decimal `json:"amperage"`
	Details     *string          `json:"details"`
}

// ProductResponse salida de un producto. Origin indica si el registro viene del remoto o del dispositivo.
type ProductResponse struct {
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
	Origin      string           `json:"origin"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportIssue problema en una fila del CSV.
type ImportIssue struct {
	Line    int    `json:"line"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ImportResponse resultado de una importación CSV.
type ImportResponse struct {
	Rows       int           `json:"rows"`
	Upserted   int           `json:"upserted"`
	Duplicates int           `json:"duplicates"`
	Skipped    []ImportIssue `json:"skipped"`
	Warnings   []ImportIssue `json:"warnings"`
}
