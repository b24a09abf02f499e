package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// constraintViolation devuelve el PgError si err es una violación de integridad (SQLSTATE clase 23:
// check 23514, unique 23505, foreign key 23503, not null 23502).
func constraintViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return pgErr, true
	}
	return nil, false
}

// classifyError traduce un error de pgx a la taxonomía del dominio.
// Todo lo que no es una regla del esquema se trata como fallo de transporte.
func classifyError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if pgErr, ok := constraintViolation(err); ok {
		if pgErr.Code == "23505" {
			err = errors.Join(domain.ErrDuplicate, err)
		}
		return &domain.ConstraintError{
			Table:      table,
			Constraint: pgErr.ConstraintName,
			Message:    pgErr.Message,
			Err:        err,
		}
	}
	return &domain.TransportError{Op: op, Table: table, Err: err}
}

// ident entrecomilla un identificador de tabla o columna.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// normalizeRow deja los valores en tipos simples: UUID binarios como string, arrays de texto como []string.
func normalizeRow(m map[string]any) ports.Row {
	row := make(ports.Row, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case [16]byte:
			row[k] = uuid.UUID(val).String()
		case []any:
			row[k] = toStringSlice(val)
		default:
			row[k] = v
		}
	}
	return row
}

func toStringSlice(values []any) any {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return values
		}
		out = append(out, s)
	}
	return out
}
