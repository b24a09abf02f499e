// Package csvimport convierte el CSV de catálogo en productos normalizados y viceversa.
// No hace llamadas de red: el lote resultante se entrega al repositorio de productos.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Errores de formato del archivo.
var (
	ErrEmptyFile     = errors.New("archivo CSV vacío")
	ErrMissingHeader = errors.New("falta la fila de encabezado")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// record fila de datos con su número de línea en el archivo.
// lazy indica comillas mal formadas leídas en modo tolerante; err, una línea que no se pudo tokenizar.
type record struct {
	line   int
	fields map[string]string
	lazy   bool
	err    error
}

// maxLineBytes tamaño máximo de una línea del CSV.
const maxLineBytes = 1 << 20

// reader lee el encabezado y las filas; las columnas se identifican por nombre normalizado.
// Cada línea física se tokeniza por separado: unas comillas sin cerrar no arrastran las filas siguientes.
type reader struct {
	lines   *bufio.Scanner
	lineNo  int
	columns []string
}

// newReader quita el BOM y transcodifica ISO-8859-1 si el contenido no es UTF-8 válido.
func newReader(r io.Reader) (*reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	rd := &reader{lines: sc}

	for {
		text, ok, err := rd.scan()
		if err != nil {
			return nil, fmt.Errorf("leer encabezado: %w", err)
		}
		if !ok {
			return nil, ErrMissingHeader
		}
		if text == "" {
			continue
		}
		header, _, err := tokenize(text)
		if err != nil {
			return nil, fmt.Errorf("leer encabezado: %w", err)
		}
		rd.columns = make([]string, len(header))
		for i, h := range header {
			rd.columns[i] = canonicalColumn(h)
		}
		return rd, nil
	}
}

// scan avanza una línea física; quita los espacios finales.
func (r *reader) scan() (string, bool, error) {
	if !r.lines.Scan() {
		return "", false, r.lines.Err()
	}
	r.lineNo++
	return strings.TrimRightFunc(r.lines.Text(), unicode.IsSpace), true, nil
}

func (r *reader) hasColumn(name string) bool {
	for _, c := range r.columns {
		if c == name {
			return true
		}
	}
	return false
}

// next devuelve io.EOF al terminar. Las filas sin ningún valor se saltan.
// Una línea que no se puede tokenizar se devuelve con err y sin campos.
func (r *reader) next() (*record, error) {
	for {
		text, ok, err := r.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}
		if text == "" {
			continue
		}
		rec := &record{line: r.lineNo, fields: make(map[string]string, len(r.columns))}
		fields, lazy, err := tokenize(text)
		if err != nil {
			rec.err = err
			return rec, nil
		}
		rec.lazy = lazy
		empty := true
		for i, col := range r.columns {
			if col == "" || i >= len(fields) {
				continue
			}
			v := strings.TrimSpace(fields[i])
			if v != "" {
				empty = false
			}
			rec.fields[col] = v
		}
		if !empty {
			return rec, nil
		}
	}
}

// tokenize parte una sola línea. Primero en modo estricto; si las comillas
// están mal formadas reintenta con LazyQuotes e informa lazy=true.
func tokenize(line string) ([]string, bool, error) {
	fields, err := readFields(line, false)
	if err == nil {
		return fields, false, nil
	}
	fields, err = readFields(line, true)
	if err != nil {
		return nil, true, err
	}
	return fields, true, nil
}

func readFields(line string, lazy bool) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.LazyQuotes = lazy
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr.Read()
}

// columnAliases nombres aceptados en el encabezado (ya normalizados) -> columna canónica.
var columnAliases = map[string]string{
	"code":         ColCode,
	"codigo":       ColCode,
	"description":  ColDescription,
	"descricao":    ColDescription,
	"descripcion":  ColDescription,
	"reference":    ColReference,
	"referencia":   ColReference,
	"colors":       ColColors,
	"cores":        ColColors,
	"colores":      ColColors,
	"imageurl":     ColImageURL,
	"image_url":    ColImageURL,
	"imagem":       ColImageURL,
	"category":     ColCategory,
	"categoria":    ColCategory,
	"subcategory":  ColSubcategory,
	"subcategoria": ColSubcategory,
	"line":         ColLine,
	"linha":        ColLine,
	"linea":        ColLine,
	"amperage":     ColAmperage,
	"amperagem":    ColAmperage,
	"amperaje":     ColAmperage,
	"details":      ColDetails,
	"detalhes":     ColDetails,
	"detalles":     ColDetails,
}

// canonicalColumn minúsculas, sin espacios extremos ni acentos; "" si la columna no se reconoce.
func canonicalColumn(h string) string {
	key := strings.ToLower(strings.TrimSpace(foldAccents(h)))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return columnAliases[key]
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
