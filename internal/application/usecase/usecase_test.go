package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

const (
	rep3   = "00000000-0000-4000-8000-0000000000a3"
	rep9   = "00000000-0000-4000-8000-0000000000a9"
	admin1 = "00000000-0000-4000-8000-0000000000a1"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

// memProducts ProductRepository en memoria con upsert por código.
type memProducts struct {
	byCode  map[string]entity.Product
	seq     int
	upserts int
}

func newMemProducts() *memProducts {
	return &memProducts{byCode: map[string]entity.Product{}}
}

func (m *memProducts) List(context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(m.byCode))
	for _, p := range m.byCode {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range m.byCode {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetByIDs(_ context.Context, ids []string) (map[string]entity.Product, error) {
	out := map[string]entity.Product{}
	for _, id := range ids {
		for _, p := range m.byCode {
			if p.ID == id {
				out[id] = p
			}
		}
	}
	return out, nil
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.seq++
	p.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", m.seq)
	p.Origin = entity.OriginRemote
	m.byCode[p.Code] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.byCode[p.Code] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	for code, p := range m.byCode {
		if p.ID == id {
			delete(m.byCode, code)
		}
	}
	return nil
}

func (m *memProducts) UpsertByCode(_ context.Context, batch []entity.Product) error {
	m.upserts++
	for _, p := range batch {
		if existing, ok := m.byCode[p.Code]; ok {
			p.ID = existing.ID
		} else {
			m.seq++
			p.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", m.seq)
		}
		m.byCode[p.Code] = p
	}
	return nil
}

type memOrders struct {
	headers []entity.OrderHeader
	items   []entity.OrderItem
	calls   int
}

func (m *memOrders) ListHeaders(context.Context) ([]entity.OrderHeader, error) {
	m.calls++
	return m.headers, nil
}

func (m *memOrders) GetHeader(_ context.Context, id string) (*entity.OrderHeader, error) {
	m.calls++
	for _, h := range m.headers {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, nil
}

func (m *memOrders) CreateHeader(_ context.Context, h *entity.OrderHeader) error {
	m.calls++
	h.ID = fmt.Sprintf("10000000-0000-4000-8000-%012d", len(m.headers)+1)
	m.headers = append(m.headers, *h)
	return nil
}

func (m *memOrders) CreateItems(_ context.Context, items []entity.OrderItem) error {
	m.calls++
	m.items = append(m.items, items...)
	return nil
}

func (m *memOrders) ListItems(_ context.Context, ids []string) ([]entity.OrderItem, error) {
	var out []entity.OrderItem
	for _, it := range m.items {
		for _, id := range ids {
			if it.OrderID == id {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (m *memOrders) ListInteractions(context.Context, []string) ([]entity.OrderInteraction, error) {
	return nil, nil
}

func (m *memOrders) AddInteraction(context.Context, *entity.OrderInteraction) error { return nil }

func (m *memOrders) UpdateHeader(context.Context, string, repository.OrderHeaderPatch) {}

func (m *memOrders) Delete(context.Context, string) {}

type fakeUserRepo struct {
	repository.UserRepository
	created []entity.User
	err     error
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *u)
	return nil
}

func (f *fakeUserRepo) GetByID(context.Context, string) (*entity.User, error) { return nil, nil }

type fakePDF struct {
	order *entity.Order
}

func (f *fakePDF) GenerateOrderPDF(_ context.Context, o *entity.Order, _ *entity.User) ([]byte, error) {
	f.order = o
	return []byte("%PDF-1.4"), nil
}

// ─── Productos ───────────────────────────────────────────────────────────────

const threeRows = "code,description,colors\nA,Tomada,Branco|Preto\nB,\"Elétrica, Ltda\",\nC,Interruptor,Azul\n"

func TestImportCSV_ReimportarNoDuplica(t *testing.T) {
	ctx := context.Background()
	repo := newMemProducts()
	uc := NewProductUseCase(repo)

	first, err := uc.ImportCSV(ctx, strings.NewReader(threeRows))
	require.NoError(t, err)
	assert.Equal(t, 3, first.Upserted)

	_, err = uc.ImportCSV(ctx, strings.NewReader(threeRows))
	require.NoError(t, err)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, 2, repo.upserts, "un único upsert por importación")
	assert.Equal(t, "Elétrica, Ltda", repo.byCode["B"].Description)
}

func TestImportCSV_ArchivoInvalidoNoLlegaAlRepositorio(t *testing.T) {
	repo := newMemProducts()
	_, err := NewProductUseCase(repo).ImportCSV(context.Background(), strings.NewReader(""))

	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Zero(t, repo.upserts)
}

func TestExportCSV_UneColoresConBarra(t *testing.T) {
	ctx := context.Background()
	repo := newMemProducts()
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "A", Colors: []string{"Azul", "Branco"}}))

	var buf bytes.Buffer
	require.NoError(t, NewProductUseCase(repo).ExportCSV(ctx, &buf))
	assert.Contains(t, buf.String(), "Azul|Branco")
}

func TestCreateProduct_Defaults(t *testing.T) {
	uc := NewProductUseCase(newMemProducts())

	res, err := uc.Create(context.Background(), dto.CreateProductRequest{Code: " X1 "})
	require.NoError(t, err)
	assert.Equal(t, "X1", res.Code)
	assert.Equal(t, "Sem descrição", res.Description)
	assert.Equal(t, "Geral", res.Category)
	assert.Equal(t, "https://picsum.photos/seed/X1/400/400", res.ImageURL)
	assert.Equal(t, "remote", res.Origin)
	assert.NotNil(t, res.Colors)
}

func TestGetProduct_NoExiste(t *testing.T) {
	_, err := NewProductUseCase(newMemProducts()).GetByID(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

func TestCreateUser_RolDesconocidoNoLlegaAlRepositorio(t *testing.T) {
	repo := &fakeUserRepo{}
	_, err := NewUserUseCase(repo).Create(context.Background(), dto.CreateUserRequest{Email: "a@b.com", Name: "A", Role: "ROOT"})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "role", ve.Field)
	assert.Empty(t, repo.created)
}

func TestCreateUser_ConstraintErrorDelBackend(t *testing.T) {
	repo := &fakeUserRepo{err: &domain.ConstraintError{Table: "profiles", Constraint: "profiles_role_check", Message: "role not permitted by backend rule"}}
	_, err := NewUserUseCase(repo).Create(context.Background(), dto.CreateUserRequest{Email: "a@b.com", Name: "A", Role: "supervisor"})

	assert.True(t, domain.IsConstraint(err))
}

// ─── Pedidos ─────────────────────────────────────────────────────────────────

func newOrderUseCase(t *testing.T) (*OrderUseCase, *memOrders, *memProducts, *fakePDF) {
	t.Helper()
	products := newMemProducts()
	require.NoError(t, products.Create(context.Background(), &entity.Product{Code: "A", Description: "Tomada"}))
	o := &memOrders{}
	pdf := &fakePDF{}
	agg := orders.NewAggregator(o, products, logger.Nop())
	return NewOrderUseCase(agg, products, &fakeUserRepo{}, pdf, logger.Nop()), o, products, pdf
}

func TestCreateOrder_SinItemsNoTocaElAlmacen(t *testing.T) {
	uc, o, _, _ := newOrderUseCase(t)
	actor := Actor{UserID: rep3, Role: entity.RoleRepresentative}

	_, err := uc.Create(context.Background(), actor, dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, o.calls)
}

func TestCreateOrder_IDsNoUUIDNoTocanElAlmacen(t *testing.T) {
	uc, o, products, _ := newOrderUseCase(t)
	p := products.byCode["A"]

	tests := []struct {
		name  string
		actor Actor
		in    dto.CreateOrderRequest
		field string
	}{
		{
			"producto local",
			Actor{UserID: rep3, Role: entity.RoleRepresentative},
			dto.CreateOrderRequest{Items: []dto.CreateOrderItemRequest{{ProductID: "p1", Quantity: 1}}},
			"items[0].product_id",
		},
		{
			"representante local en el cuerpo",
			Actor{UserID: admin1, Role: entity.RoleAdmin},
			dto.CreateOrderRequest{RepresentativeID: "u3", Items: []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 1}}},
			"representative_id",
		},
		{
			"actor semilla sin representative_id",
			Actor{UserID: "u3", Role: entity.RoleRepresentative},
			dto.CreateOrderRequest{Items: []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 1}}},
			"representative_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.actor, tt.in)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, o.calls)
		})
	}
}

func TestListOrders_Paginacion(t *testing.T) {
	ctx := context.Background()
	uc, _, products, _ := newOrderUseCase(t)
	p := products.byCode["A"]
	actor := Actor{UserID: rep3, Role: entity.RoleRepresentative}
	for i := 0; i < 3; i++ {
		_, err := uc.Create(ctx, actor, dto.CreateOrderRequest{Items: []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 1}}})
		require.NoError(t, err)
	}

	res := uc.List(ctx, actor, dto.PageRequest{Limit: 2, Offset: 1})
	assert.Len(t, res.Items, 2)
	assert.Equal(t, dto.PageResponse{Limit: 2, Offset: 1, Total: 3}, res.Page)
}

type offlineSnapshot struct {
	*memProducts
}

func (offlineSnapshot) GetByIDs(context.Context, []string) (map[string]entity.Product, error) {
	return nil, &domain.TransportError{Op: "select", Table: "products", Err: errors.New("connection refused")}
}

func TestCreateOrder_SinCopiaDeProductosSeRegistra(t *testing.T) {
	products := newMemProducts()
	require.NoError(t, products.Create(context.Background(), &entity.Product{Code: "A", Description: "Tomada"}))
	p := products.byCode["A"]

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})
	agg := orders.NewAggregator(&memOrders{}, products, logger.Nop())
	uc := NewOrderUseCase(agg, offlineSnapshot{products}, &fakeUserRepo{}, &fakePDF{}, log)

	res, err := uc.Create(context.Background(), Actor{UserID: rep3, Role: entity.RoleRepresentative}, dto.CreateOrderRequest{
		Items: []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, p.ID, res.Items[0].Product.ID)
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), `"op":"get_by_ids"`)
}

func TestCreateOrder_RepresentanteNoCreaParaOtro(t *testing.T) {
	uc, o, products, _ := newOrderUseCase(t)
	actor := Actor{UserID: rep3, Role: entity.RoleRepresentative}
	p := products.byCode["A"]

	_, err := uc.Create(context.Background(), actor, dto.CreateOrderRequest{
		RepresentativeID: rep9,
		Items:            []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, o.calls)
}

func TestCreateOrder_UsaElActorComoRepresentante(t *testing.T) {
	uc, _, products, _ := newOrderUseCase(t)
	actor := Actor{UserID: rep3, Role: entity.RoleRepresentative}
	p := products.byCode["A"]

	res, err := uc.Create(context.Background(), actor, dto.CreateOrderRequest{
		Items: []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, rep3, res.RepresentativeID)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Tomada", res.Items[0].Product.Description)
	assert.Equal(t, 3, res.Items[0].Quantity)
}

func TestListOrders_RepresentanteSoloVeLosSuyos(t *testing.T) {
	ctx := context.Background()
	uc, _, products, _ := newOrderUseCase(t)
	p := products.byCode["A"]
	items := []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 1}}

	_, err := uc.Create(ctx, Actor{UserID: rep3, Role: entity.RoleRepresentative}, dto.CreateOrderRequest{Items: items})
	require.NoError(t, err)
	_, err = uc.Create(ctx, Actor{UserID: rep9, Role: entity.RoleRepresentative}, dto.CreateOrderRequest{Items: items})
	require.NoError(t, err)

	assert.Len(t, uc.List(ctx, Actor{UserID: rep3, Role: entity.RoleRepresentative}, dto.PageRequest{}).Items, 1)
	assert.Len(t, uc.List(ctx, Actor{UserID: admin1, Role: entity.RoleSupervisor}, dto.PageRequest{}).Items, 2)
}

func TestOrderPDF_RepresentanteAjeno(t *testing.T) {
	ctx := context.Background()
	uc, _, products, pdf := newOrderUseCase(t)
	p := products.byCode["A"]
	created, err := uc.Create(ctx, Actor{UserID: rep3, Role: entity.RoleRepresentative}, dto.CreateOrderRequest{
		Items: []dto.CreateOrderItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, _, err = uc.PDF(ctx, Actor{UserID: rep9, Role: entity.RoleRepresentative}, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	data, name, err := uc.PDF(ctx, Actor{UserID: admin1, Role: entity.RoleAdmin}, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "pedido_10000000.pdf", name)
	require.NotNil(t, pdf.order)
	assert.Equal(t, created.ID, pdf.order.ID)
}
