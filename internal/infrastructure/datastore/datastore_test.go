package datastore

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/localcache"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// ─── Productos ───────────────────────────────────────────────────────────────

func TestProductList_RemotoCaidoDevuelveLoUltimoCacheado(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := localcache.NewMemoryCache()
	repo := NewProductRepository(store, cache, logger.Nop())

	amp := decimal.RequireFromString("10")
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "A", Description: "Tomada", Colors: []string{"Branco"}, Amperage: &amp}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "B", Description: "Interruptor"}))

	online, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, online, 2)

	store.offline()
	offline, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, online, offline)
}

func TestProductList_RemotoCaidoSinCacheDevuelveVacio(t *testing.T) {
	store := newFakeStore()
	store.offline()
	repo := NewProductRepository(store, localcache.NewMemoryCache(), logger.Nop())

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProductList_CacheLegadaSinOrigenUsaHeuristica(t *testing.T) {
	ctx := context.Background()
	cache := localcache.NewMemoryCache()
	require.NoError(t, localcache.Save(ctx, cache, ports.CacheKindProducts, []entity.Product{
		{ID: "8d2f3a4e-59b1-4c3e-9a7d-2b6f1e0c9d11", Code: "A"},
		{ID: "p1", Code: "B"},
	}))
	store := newFakeStore()
	store.offline()

	got, err := NewProductRepository(store, cache, logger.Nop()).List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.OriginRemote, got[0].Origin)
	assert.Equal(t, entity.OriginLocal, got[1].Origin)
}

func TestProductCreate_FalloRemotoSePropaga(t *testing.T) {
	store := newFakeStore()
	store.offline()
	repo := NewProductRepository(store, localcache.NewMemoryCache(), logger.Nop())

	err := repo.Create(context.Background(), &entity.Product{Code: "A"})
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
}

func TestProductCreate_MapeaImageURLYCompletaID(t *testing.T) {
	store := newFakeStore()
	repo := NewProductRepository(store, localcache.NewMemoryCache(), logger.Nop())
	p := &entity.Product{Code: "A", ImageURL: "https://img/a.png"}

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Len(t, p.ID, 36)
	assert.Equal(t, entity.OriginRemote, p.Origin)
	require.Len(t, store.tables[tableProducts], 1)
	assert.Equal(t, "https://img/a.png", store.tables[tableProducts][0]["image_url"])

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://img/a.png", got.ImageURL)
}

func TestProductUpdateDelete_FalloRemotoSePropaga(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewProductRepository(store, localcache.NewMemoryCache(), logger.Nop())
	p := &entity.Product{Code: "A"}
	require.NoError(t, repo.Create(ctx, p))

	store.offline()
	assert.Error(t, repo.Update(ctx, p))
	assert.Error(t, repo.Delete(ctx, p.ID))
}

func TestProductUpsertByCode_ReimportarNoDuplica(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewProductRepository(store, localcache.NewMemoryCache(), logger.Nop())
	batch := []entity.Product{{Code: "A"}, {Code: "B"}, {Code: "C"}}

	require.NoError(t, repo.UpsertByCode(ctx, batch))
	require.NoError(t, repo.UpsertByCode(ctx, batch))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestProductGetByIDs_IgnoraIDsLocales(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewProductRepository(store, localcache.NewMemoryCache(), logger.Nop())
	p := &entity.Product{Code: "A"}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByIDs(ctx, []string{p.ID, "p1", p.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, p.ID)
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

func TestUserList_RemotoCaidoDevuelveSemilla(t *testing.T) {
	store := newFakeStore()
	store.offline()
	repo := NewUserRepository(store, logger.Nop())

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, u := range got {
		assert.Equal(t, entity.OriginLocal, u.Origin)
		assert.Empty(t, u.Password)
	}
}

func TestUserCreate_ConstraintErrorSePropagaTalCual(t *testing.T) {
	store := newFakeStore()
	store.failOps["insert:profiles"] = &domain.ConstraintError{Table: "profiles", Constraint: "profiles_role_check", Message: "role not permitted by backend rule"}
	repo := NewUserRepository(store, logger.Nop())

	err := repo.Create(context.Background(), &entity.User{Email: "x@y.z", Role: entity.RoleSupervisor})
	var ce *domain.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "role not permitted by backend rule", ce.Message)
}

func TestUserGetByID_IDLocalSeResuelveConSemilla(t *testing.T) {
	store := newFakeStore()
	repo := NewUserRepository(store, logger.Nop())

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Empty(t, store.calls)
}

func TestUserFromRow_RolDesconocidoSeDegrada(t *testing.T) {
	u := userFromRow(ports.Row{"id": "8d2f3a4e-59b1-4c3e-9a7d-2b6f1e0c9d11", "role": "ROOT"})
	assert.Equal(t, entity.RoleRepresentative, u.Role)
}

func TestSeedDirectory_Authenticate(t *testing.T) {
	d, err := NewSeedDirectory()
	require.NoError(t, err)

	u, ok := d.Authenticate(context.Background(), " ADMIN@pedidos.local ", "admin123")
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, entity.RoleAdmin, u.Role)

	_, ok = d.Authenticate(context.Background(), "admin@pedidos.local", "otra")
	assert.False(t, ok)
}

// ─── Pedidos ─────────────────────────────────────────────────────────────────

func TestOrderListHeaders_RemotoCaidoDevuelveError(t *testing.T) {
	store := newFakeStore()
	store.offline()

	_, err := NewOrderRepository(store, logger.Nop()).ListHeaders(context.Background())
	assert.True(t, domain.IsTransport(err))
}

func TestOrderUpdateDelete_FalloRemotoSeRegistraYSeDescarta(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	var buf bytes.Buffer
	repo := NewOrderRepository(store, logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf}))

	h := &entity.OrderHeader{RepresentativeID: "8d2f3a4e-59b1-4c3e-9a7d-2b6f1e0c9d11"}
	require.NoError(t, repo.CreateHeader(ctx, h))

	store.offline()
	status := entity.OrderStatusClosed
	assert.NotPanics(t, func() {
		repo.UpdateHeader(ctx, h.ID, repository.OrderHeaderPatch{Status: &status})
		repo.Delete(ctx, h.ID)
	})
	assert.Contains(t, buf.String(), h.ID)
	assert.Contains(t, buf.String(), `"op":"update"`)
	assert.Contains(t, buf.String(), `"op":"delete"`)
}

func TestOrderCreateHeader_CompletaIDYFecha(t *testing.T) {
	store := newFakeStore()
	repo := NewOrderRepository(store, logger.Nop())
	name := "Elétrica, Ltda"
	h := &entity.OrderHeader{RepresentativeID: "u3", CustomerName: &name}

	require.NoError(t, repo.CreateHeader(context.Background(), h))
	assert.Len(t, h.ID, 36)
	assert.False(t, h.CreatedAt.IsZero())
	assert.Equal(t, entity.OrderStatusNew, h.Status)

	got, err := repo.GetHeader(context.Background(), h.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, name, *got.CustomerName)
}

func TestOrderAlta_IDsNoUUIDSeRechazanAntesDelAlmacen(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	products := NewProductRepository(store, localcache.NewMemoryCache(), logger.Nop())
	agg := orders.NewAggregator(NewOrderRepository(store, logger.Nop()), products, logger.Nop())
	rep := "8d2f3a4e-59b1-4c3e-9a7d-2b6f1e0c9d11"

	tests := []struct {
		name string
		in   orders.NewOrder
	}{
		{"producto local", orders.NewOrder{RepresentativeID: rep, Items: []entity.CartItem{{Product: entity.Product{ID: "p1"}, Quantity: 1}}}},
		{"usuario semilla", orders.NewOrder{RepresentativeID: "u3", Items: []entity.CartItem{{Product: entity.Product{ID: rep}, Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agg.Create(ctx, tt.in)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			var pw *domain.PartialWriteError
			assert.False(t, errors.As(err, &pw))
			assert.False(t, domain.IsTransport(err))
			assert.Empty(t, store.calls)
			assert.Empty(t, store.tables["orders"])
		})
	}
}

// ─── Mapeo de filas ──────────────────────────────────────────────────────────

func TestRows_LecturaTolerante(t *testing.T) {
	row := ports.Row{
		"id":       [16]byte{0x8d, 0x2f},
		"colors":   []any{"Azul", "Preto"},
		"amperage": "2.5",
		"quantity": int32(4),
	}
	assert.Len(t, str(row, "id"), 36)
	assert.Equal(t, []string{"Azul", "Preto"}, strSlice(row, "colors"))
	require.NotNil(t, decimalPtr(row, "amperage"))
	assert.Equal(t, "2.5", decimalPtr(row, "amperage").String())
	assert.Equal(t, 4, intOf(row, "quantity"))
	assert.Nil(t, strPtr(row, "details"))
	assert.Equal(t, []string{"a", "b"}, strSlice(ports.Row{"colors": "{a,b}"}, "colors"))
}
