package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/csvimport"
)

// ProductUseCase casos de uso del catálogo: CRUD e importación/exportación CSV.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// List devuelve el catálogo (desde la caché local si el remoto no responde).
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		items = append(items, *toProductResponse(&list[i]))
	}
	items, meta := dto.Paginate(items, page)
	return &dto.ProductListResponse{Items: items, Page: meta}, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Create crea un producto aplicando los mismos valores por defecto que la importación.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	product := &entity.Product{
		Code:        code,
		Description: orDefault(in.Description, csvimport.DefaultDescription),
		Reference:   in.Reference,
		Colors:      normalizeColors(in.Colors),
		ImageURL:    orDefault(in.ImageURL, csvimport.DefaultImageURL(code)),
		Category:    orDefault(in.Category, csvimport.DefaultCategory),
		Subcategory: in.Subcategory,
		Line:        in.Line,
		Amperage:    in.Amperage,
		Details:     in.Details,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update aplica los campos presentes y sobrescribe el registro remoto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Reference != nil {
		product.Reference = *in.Reference
	}
	if in.Colors != nil {
		product.Colors = normalizeColors(in.Colors)
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Subcategory != nil {
		product.Subcategory = *in.Subcategory
	}
	if in.Line != nil {
		product.Line = *in.Line
	}
	if in.Amperage != nil {
		product.Amperage = in.Amperage
	}
	if in.Details != nil {
		product.Details = in.Details
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// ImportCSV analiza el archivo y envía el lote completo en un único upsert por código.
// Reimportar el mismo archivo no duplica productos.
func (uc *ProductUseCase) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	batch, report, err := csvimport.ParseProducts(r)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpsertByCode(ctx, batch); err != nil {
		return nil, fmt.Errorf("importar productos: %w", err)
	}
	return &dto.ImportResponse{
		Rows:       report.Rows,
		Upserted:   len(batch),
		Duplicates: report.Duplicates,
		Skipped:    toImportIssues(report.Skipped),
		Warnings:   toImportIssues(report.Warnings),
	}, nil
}

// ExportCSV escribe el catálogo actual en el formato de importación.
func (uc *ProductUseCase) ExportCSV(ctx context.Context, w io.Writer) error {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	return csvimport.ExportProducts(w, list)
}

func toImportIssues(in []csvimport.RowIssue) []dto.ImportIssue {
	out := make([]dto.ImportIssue, 0, len(in))
	for _, i := range in {
		out = append(out, dto.ImportIssue{Line: i.Line, Code: i.Code, Message: i.Message})
	}
	return out
}

func normalizeColors(colors []string) []string {
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Description: p.Description,
		Reference:   p.Reference,
		Colors:      colors,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Line:        p.Line,
		Amperage:    p.Amperage,
		Details:     p.Details,
		Origin:      string(entity.ResolveOrigin(p.Origin, p.ID)),
	}
}
