package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

var _ ports.RemoteStore = (*Store)(nil)

// Querier abstrae pool o tx para que el mismo Store funcione dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implementación del puerto RemoteStore sobre PostgreSQL (usable con pool o tx).
type Store struct {
	q Querier
}

// NewStore construye el adaptador. Pasar pool o tx (Querier).
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

// Query ejecuta un SELECT * con las condiciones del filtro en AND.
func (s *Store) Query(ctx context.Context, table string, filter ports.Filter) ([]ports.Row, error) {
	var sb strings.Builder
	args := make([]any, 0, len(filter.Where))
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(ident(table))
	for i, c := range filter.Where {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, c.Value)
		switch c.Op {
		case ports.OpIn:
			// Comparación como texto: la columna puede ser uuid y el parámetro llega como []string.
			fmt.Fprintf(&sb, "%s::text = ANY($%d::text[])", ident(c.Column), len(args))
		case ports.OpEq, "":
			fmt.Fprintf(&sb, "%s = $%d", ident(c.Column), len(args))
		default:
			return nil, &domain.TransportError{Op: "select", Table: table, Err: fmt.Errorf("operador no soportado %q", c.Op)}
		}
	}
	if filter.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(ident(filter.OrderBy))
		if filter.Descending {
			sb.WriteString(" DESC")
		}
	}
	if filter.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", filter.Limit)
	}

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, classifyError("select", table, err)
	}
	return collect("select", table, rows)
}

// Insert inserta todas las filas en una sola sentencia y devuelve lo que generó la base (RETURNING *).
func (s *Store) Insert(ctx context.Context, table string, rows []ports.Row) ([]ports.Row, error) {
	if len(rows) == 0 {
		return []ports.Row{}, nil
	}
	sql, args := buildInsert(table, rows)
	sql += " RETURNING *"

	res, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, classifyError("insert", table, err)
	}
	return collect("insert", table, res)
}

// Update aplica patch a la fila id. Devuelve domain.ErrNotFound si no existe.
func (s *Store) Update(ctx context.Context, table, id string, patch ports.Row) error {
	if len(patch) == 0 {
		return nil
	}
	cols := sortedKeys(patch)
	args := make([]any, 0, len(cols)+1)
	args = append(args, id)
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		args = append(args, patch[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(c), len(args)))
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", ident(table), strings.Join(sets, ", "))
	cmd, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return classifyError("update", table, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update %s %s: %w", table, id, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina la fila id. Borrar algo inexistente no es error.
func (s *Store) Delete(ctx context.Context, table, id string) error {
	_, err := s.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", ident(table)), id)
	if err != nil {
		return classifyError("delete", table, err)
	}
	return nil
}

// Upsert inserta o sobrescribe por conflictKey (gana la última escritura).
func (s *Store) Upsert(ctx context.Context, table string, rows []ports.Row, conflictKey string) error {
	if len(rows) == 0 {
		return nil
	}
	if conflictKey == "" {
		return &domain.TransportError{Op: "upsert", Table: table, Err: errors.New("clave de conflicto vacía")}
	}
	sql, args := buildInsert(table, rows)
	cols := columnsOf(rows)
	updates := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == conflictKey || c == "id" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", ident(c), ident(c)))
	}
	if len(updates) == 0 {
		sql += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", ident(conflictKey))
	} else {
		sql += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", ident(conflictKey), strings.Join(updates, ", "))
	}
	if _, err := s.q.Exec(ctx, sql, args...); err != nil {
		return classifyError("upsert", table, err)
	}
	return nil
}

// CheckCredential verifica email/password contra credentials (hash bcrypt).
func (s *Store) CheckCredential(ctx context.Context, email, password string) (*ports.Identity, error) {
	var id, storedEmail, hash string
	err := s.q.QueryRow(ctx,
		`SELECT id::text, email, password_hash FROM credentials WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email),
	).Scan(&id, &storedEmail, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnauthorized
		}
		return nil, classifyError("credential", "credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &ports.Identity{ID: id, Email: storedEmail}, nil
}

// buildInsert arma INSERT ... VALUES (...),(...) con la unión de columnas; las que faltan en una fila usan DEFAULT.
func buildInsert(table string, rows []ports.Row) (string, []any) {
	cols := columnsOf(rows)
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ident(c)
	}
	args := make([]any, 0, len(cols)*len(rows))
	tuples := make([]string, 0, len(rows))
	for _, r := range rows {
		ph := make([]string, len(cols))
		for i, c := range cols {
			v, ok := r[c]
			if !ok {
				ph[i] = "DEFAULT"
				continue
			}
			args = append(args, v)
			ph[i] = fmt.Sprintf("$%d", len(args))
		}
		tuples = append(tuples, "("+strings.Join(ph, ", ")+")")
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", ident(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
	return sql, args
}

func columnsOf(rows []ports.Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func sortedKeys(r ports.Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func collect(op, table string, rows pgx.Rows) ([]ports.Row, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, classifyError(op, table, err)
	}
	out := make([]ports.Row, 0, len(maps))
	for _, m := range maps {
		out = append(out, normalizeRow(m))
	}
	return out, nil
}
