package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/pkg/config"
)

// testPool conecta a TEST_DATABASE_URL y aplica el esquema. Sin la variable el test se omite.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("migrations/001_schema.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE interactions, order_items, orders, profiles, credentials, products`)
	require.NoError(t, err)
	return pool
}

func TestStore_UpsertPorCodigoNoDuplica(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	s := NewStore(pool)

	batch := []ports.Row{
		{"code": "A", "description": "Tomada", "colors": []string{"Branco"}, "origin": "remote"},
		{"code": "B", "description": "Plugue", "colors": []string{}, "origin": "remote"},
	}
	require.NoError(t, s.Upsert(ctx, "products", batch, "code"))
	batch[0]["description"] = "Tomada 20A"
	batch = append(batch, ports.Row{"code": "C", "description": "Interruptor", "colors": []string{}, "origin": "remote"})
	require.NoError(t, s.Upsert(ctx, "products", batch, "code"))

	rows, err := s.Query(ctx, "products", ports.Filter{OrderBy: "code"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Tomada 20A", rows[0]["description"])
	assert.Equal(t, []string{"Branco"}, rows[0]["colors"])
}

func TestStore_CheckDeRolEsConstraint(t *testing.T) {
	pool := testPool(t)
	s := NewStore(pool)

	_, err := s.Insert(context.Background(), "profiles", []ports.Row{
		{"email": "x@y.z", "name": "X", "role": "GUEST", "origin": "remote"},
	})
	var ce *domain.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "profiles_role_check", ce.Constraint)
}

func TestTxRunner_RollbackSiFnFalla(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(pool).Run(ctx, func(store ports.RemoteStore) error {
		reps, err := store.Insert(ctx, "profiles", []ports.Row{{"email": "r@p.local", "name": "R", "role": "REPRESENTATIVE"}})
		require.NoError(t, err)
		_, err = store.Insert(ctx, "orders", []ports.Row{{"representative_id": reps[0]["id"], "notes": "x"}})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := NewStore(pool).Query(ctx, "orders", ports.Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = NewStore(pool).Query(ctx, "profiles", ports.Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_InFiltraPorUUIDComoTexto(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	s := NewStore(pool)

	created, err := s.Insert(ctx, "products", []ports.Row{
		{"code": "A", "colors": []string{}, "origin": "remote"},
		{"code": "B", "colors": []string{}, "origin": "remote"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	id, _ := created[1]["id"].(string)
	rows, err := s.Query(ctx, "products", ports.Filter{Where: []ports.Condition{ports.In("id", []string{id})}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0]["code"])
}
