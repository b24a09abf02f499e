package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Columnas reconocidas (nombre canónico, también usado en la exportación).
const (
	ColCode        = "code"
	ColDescription = "description"
	ColReference   = "reference"
	ColColors      = "colors"
	ColImageURL    = "image_url"
	ColCategory    = "category"
	ColSubcategory = "subcategory"
	ColLine        = "line"
	ColAmperage    = "amperage"
	ColDetails     = "details"
)

// ExportColumns orden de columnas de ExportProducts.
var ExportColumns = []string{
	ColCode, ColDescription, ColReference, ColColors, ColImageURL,
	ColCategory, ColSubcategory, ColLine, ColAmperage, ColDetails,
}

// Valores por defecto de columnas ausentes o vacías.
const (
	DefaultDescription = "Sem descrição"
	DefaultCategory    = "Geral"
	ColorSeparator     = "|"
)

// DefaultImageURL imagen de relleno determinista por código.
func DefaultImageURL(code string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/400/400", url.PathEscape(code))
}

// RowIssue problema en una fila concreta.
type RowIssue struct {
	Line    int    `json:"line"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Report resumen del análisis: filas leídas, omitidas y códigos repetidos dentro del archivo.
type Report struct {
	Rows       int        `json:"rows"`
	Products   int        `json:"products"`
	Duplicates int        `json:"duplicates"`
	Skipped    []RowIssue `json:"skipped"`
	Warnings   []RowIssue `json:"warnings"`
}

// ParseProducts lee el CSV completo. Si un código se repite gana la última fila.
func ParseProducts(r io.Reader) ([]entity.Product, *Report, error) {
	rd, err := newReader(r)
	if err != nil {
		if errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrMissingHeader) {
			return nil, nil, domain.NewValidationError("file", err.Error())
		}
		return nil, nil, err
	}
	if !rd.hasColumn(ColCode) {
		return nil, nil, domain.NewValidationError(ColCode, "el encabezado no tiene columna code")
	}

	report := &Report{Skipped: []RowIssue{}, Warnings: []RowIssue{}}
	products := make([]entity.Product, 0)
	index := make(map[string]int)

	for {
		rec, err := rd.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, domain.NewValidationError("file", err.Error())
		}
		report.Rows++
		if rec.err != nil {
			report.Skipped = append(report.Skipped, RowIssue{Line: rec.line, Message: "línea ilegible: " + rec.err.Error()})
			continue
		}

		p, warnings, ok := toProduct(rec)
		report.Warnings = append(report.Warnings, warnings...)
		if !ok {
			report.Skipped = append(report.Skipped, RowIssue{Line: rec.line, Message: "fila sin code"})
			continue
		}
		if rec.lazy {
			report.Warnings = append(report.Warnings, RowIssue{Line: rec.line, Code: p.Code, Message: "comillas mal formadas; fila leída en modo tolerante"})
		}
		if i, dup := index[p.Code]; dup {
			products[i] = p
			report.Duplicates++
			continue
		}
		index[p.Code] = len(products)
		products = append(products, p)
	}

	report.Products = len(products)
	return products, report, nil
}

func toProduct(rec *record) (entity.Product, []RowIssue, bool) {
	f := rec.fields
	code := f[ColCode]
	if code == "" {
		return entity.Product{}, nil, false
	}
	p := entity.Product{
		Code:        code,
		Description: orDefault(f[ColDescription], DefaultDescription),
		Reference:   f[ColReference],
		Colors:      SplitColors(f[ColColors]),
		ImageURL:    orDefault(f[ColImageURL], DefaultImageURL(code)),
		Category:    orDefault(f[ColCategory], DefaultCategory),
		Subcategory: f[ColSubcategory],
		Line:        f[ColLine],
	}
	if d := f[ColDetails]; d != "" {
		p.Details = &d
	}

	var warnings []RowIssue
	if raw := f[ColAmperage]; raw != "" {
		amp, err := ParseAmperage(raw)
		if err != nil {
			warnings = append(warnings, RowIssue{Line: rec.line, Code: code, Message: fmt.Sprintf("amperage %q ignorado", raw)})
		} else {
			p.Amperage = &amp
		}
	}
	return p, warnings, true
}

// SplitColors separa la celda de colores por "|"; descarta vacíos.
func SplitColors(cell string) []string {
	colors := []string{}
	for _, c := range strings.Split(cell, ColorSeparator) {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}

// JoinColors inverso de SplitColors.
func JoinColors(colors []string) string {
	return strings.Join(colors, ColorSeparator)
}

// ParseAmperage acepta "10", "10A", "2,5", "2.5 A".
func ParseAmperage(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, "aA ")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// ExportProducts escribe el catálogo en el mismo formato que acepta ParseProducts.
func ExportProducts(w io.Writer, products []entity.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, p := range products {
		amperage := ""
		if p.Amperage != nil {
			amperage = p.Amperage.String()
		}
		details := ""
		if p.Details != nil {
			details = *p.Details
		}
		row := []string{
			p.Code, p.Description, p.Reference, JoinColors(p.Colors), p.ImageURL,
			p.Category, p.Subcategory, p.Line, amperage, details,
		}
		// Una fila por línea física: ParseProducts no acepta campos multilínea.
		for i := range row {
			row[i] = flattenLines.Replace(row[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var flattenLines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
