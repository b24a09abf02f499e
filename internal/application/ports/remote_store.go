package ports

import "context"

// Row fila tal como la devuelve o la recibe el almacén remoto (columna -> valor).
type Row map[string]any

// Operadores soportados en Condition.
const (
	OpEq = "eq"
	OpIn = "in"
)

// Condition filtro sobre una columna.
type Condition struct {
	Column string
	Op     string
	Value  any
}

// Eq condición de igualdad.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: OpEq, Value: value}
}

// In condición de pertenencia; values vacío no coincide con ninguna fila.
func In(column string, values []string) Condition {
	return Condition{Column: column, Op: OpIn, Value: values}
}

// Filter selección de filas: condiciones en AND, orden y límite opcionales.
type Filter struct {
	Where      []Condition
	OrderBy    string
	Descending bool
	Limit      int
}

// Identity identidad devuelta por la verificación de credenciales.
type Identity struct {
	ID    string
	Email string
}

// RemoteStore puerto de salida hacia el backend tabular remoto.
// Todas las operaciones pueden fallar con *domain.TransportError o *domain.ConstraintError.
// No hay reintentos implícitos ni timeout propio: el plazo lo pone el ctx del llamador.
type RemoteStore interface {
	Query(ctx context.Context, table string, filter Filter) ([]Row, error)
	// Insert devuelve las filas insertadas con los campos generados (id, created_at).
	Insert(ctx context.Context, table string, rows []Row) ([]Row, error)
	Update(ctx context.Context, table, id string, patch Row) error
	Delete(ctx context.Context, table, id string) error
	Upsert(ctx context.Context, table string, rows []Row, conflictKey string) error
	// CheckCredential devuelve domain.ErrUnauthorized si email/password no coinciden.
	CheckCredential(ctx context.Context, email, password string) (*Identity, error)
}

// TxRunner ejecuta fn con un RemoteStore atado a una transacción (commit si fn devuelve nil).
type TxRunner interface {
	Run(ctx context.Context, fn func(store RemoteStore) error) error
}
