// Package orders compone el pedido a partir de cabecera, ítems e historial.
//
// El alta es un proceso de dos pasos (cabecera, luego ítems) sin transacción por defecto:
// si el segundo paso falla queda una cabecera huérfana en el remoto, se informa con
// *domain.PartialWriteError y no se borra. Con WithTxRunner ambos pasos van en una
// transacción y el caso huérfano desaparece.
package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// TxRunner ejecuta fn con un repositorio de pedidos atado a una transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(orders repository.OrderRepository) error) error
}

// Option configura el agregador.
type Option func(*Aggregator)

// WithTxRunner activa el alta atómica.
func WithTxRunner(tx TxRunner) Option {
	return func(a *Aggregator) { a.tx = tx }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// Aggregator escribe y reconstruye pedidos.
type Aggregator struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	tx       TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewAggregator construye el agregador.
func NewAggregator(orders repository.OrderRepository, products repository.ProductRepository, log *logger.Logger, opts ...Option) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	a := &Aggregator{orders: orders, products: products, log: log, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Atomic indica si el alta corre dentro de una transacción.
func (a *Aggregator) Atomic() bool { return a.tx != nil }

// NewOrder datos de alta. Items lleva la copia del producto; solo se persiste su ID y la cantidad.
type NewOrder struct {
	CustomerName     *string
	CustomerContact  *string
	RepresentativeID string
	Notes            string
	Items            []entity.CartItem
}

func validateNewOrder(in NewOrder) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrEmptyOrder, domain.NewValidationError("items", "el pedido debe tener al menos un ítem"))
	}
	if strings.TrimSpace(in.RepresentativeID) == "" {
		return domain.NewValidationError("representative_id", "es obligatorio")
	}
	// Las columnas del remoto son uuid: un ID local (usuario o producto semilla) nunca llega al almacén.
	if !isUUID(in.RepresentativeID) {
		return domain.NewValidationError("representative_id", "debe ser un UUID")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Product.ID) == "" {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "es obligatorio")
		}
		if !isUUID(it.Product.ID) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "debe ser un UUID")
		}
		if it.Quantity < 1 {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "mínimo 1")
		}
	}
	return nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Create valida, inserta la cabecera y después los ítems.
// Sin transacción, un fallo en los ítems devuelve *domain.PartialWriteError con el ID de la cabecera huérfana.
func (a *Aggregator) Create(ctx context.Context, in NewOrder) (*entity.Order, error) {
	if err := validateNewOrder(in); err != nil {
		return nil, err
	}
	header := &entity.OrderHeader{
		CustomerName:     in.CustomerName,
		CustomerContact:  in.CustomerContact,
		RepresentativeID: in.RepresentativeID,
		Status:           entity.OrderStatusNew,
		Notes:            in.Notes,
	}

	if a.tx != nil {
		err := a.tx.Run(ctx, func(orders repository.OrderRepository) error {
			if err := orders.CreateHeader(ctx, header); err != nil {
				return err
			}
			return orders.CreateItems(ctx, itemRows(header.ID, in.Items))
		})
		if err != nil {
			a.log.Warn().Err(err).Str("entity", "order").Str("op", "create").Msg("alta atómica revertida")
			return nil, fmt.Errorf("crear pedido: %w", err)
		}
		return composeNew(header, in.Items), nil
	}

	if err := a.orders.CreateHeader(ctx, header); err != nil {
		return nil, fmt.Errorf("crear pedido: %w", err)
	}
	if err := a.orders.CreateItems(ctx, itemRows(header.ID, in.Items)); err != nil {
		a.log.Error().Err(err).
			Str("entity", "order").
			Str("op", "create").
			Str("order_id", header.ID).
			Int("items", len(in.Items)).
			Msg("cabecera huérfana: los ítems no se guardaron")
		return nil, &domain.PartialWriteError{OrderID: header.ID, Err: err}
	}
	return composeNew(header, in.Items), nil
}

func itemRows(orderID string, items []entity.CartItem) []entity.OrderItem {
	rows := make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, entity.OrderItem{OrderID: orderID, ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	return rows
}

func composeNew(h *entity.OrderHeader, items []entity.CartItem) *entity.Order {
	o := orderFromHeader(*h)
	o.Items = append(o.Items, items...)
	return &o
}

func orderFromHeader(h entity.OrderHeader) entity.Order {
	return entity.Order{
		ID:               h.ID,
		CustomerName:     h.CustomerName,
		CustomerContact:  h.CustomerContact,
		RepresentativeID: h.RepresentativeID,
		Items:            []entity.CartItem{},
		Status:           h.Status,
		CreatedAt:        h.CreatedAt,
		Notes:            h.Notes,
		Interactions:     []entity.CRMInteraction{},
		Origin:           entity.ResolveOrigin(h.Origin, h.ID),
	}
}

// List todos los pedidos. Sin respaldo local: cualquier fallo remoto devuelve lista vacía.
func (a *Aggregator) List(ctx context.Context) []entity.Order {
	headers, err := a.orders.ListHeaders(ctx)
	if err != nil {
		a.log.Warn().Err(err).Str("entity", "order").Str("op", "list").Msg("remoto no disponible, sin pedidos")
		return []entity.Order{}
	}
	out, err := a.compose(ctx, headers)
	if err != nil {
		a.log.Warn().Err(err).Str("entity", "order").Str("op", "list").Msg("no se pudo componer los pedidos")
		return []entity.Order{}
	}
	return out
}

// Get reconstruye un pedido. Una cabecera huérfana se devuelve con cero ítems.
func (a *Aggregator) Get(ctx context.Context, id string) (*entity.Order, error) {
	header, err := a.orders.GetHeader(ctx, id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("pedido %s: %w", id, domain.ErrNotFound)
	}
	out, err := a.compose(ctx, []entity.OrderHeader{*header})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ListOrphans cabeceras sin ítems (altas a medias). Lectura administrativa: los errores se propagan.
func (a *Aggregator) ListOrphans(ctx context.Context) ([]entity.Order, error) {
	headers, err := a.orders.ListHeaders(ctx)
	if err != nil {
		return nil, err
	}
	all, err := a.compose(ctx, headers)
	if err != nil {
		return nil, err
	}
	orphans := make([]entity.Order, 0)
	for _, o := range all {
		if len(o.Items) == 0 {
			orphans = append(orphans, o)
		}
	}
	return orphans, nil
}

// compose une cabeceras con ítems (y producto actual) e historial en tres consultas.
func (a *Aggregator) compose(ctx context.Context, headers []entity.OrderHeader) ([]entity.Order, error) {
	if len(headers) == 0 {
		return []entity.Order{}, nil
	}
	ids := make([]string, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}

	items, err := a.orders.ListItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	interactions, err := a.orders.ListInteractions(ctx, ids)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := a.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	itemsByOrder := make(map[string][]entity.CartItem, len(headers))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			p = entity.RemovedProduct(it.ProductID)
		}
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], entity.CartItem{Product: p, Quantity: it.Quantity})
	}
	historyByOrder := make(map[string][]entity.CRMInteraction, len(headers))
	for _, in := range interactions {
		historyByOrder[in.OrderID] = append(historyByOrder[in.OrderID], in.Interaction)
	}

	out := make([]entity.Order, 0, len(headers))
	for _, h := range headers {
		o := orderFromHeader(h)
		if its := itemsByOrder[h.ID]; len(its) > 0 {
			o.Items = its
		}
		if hist := historyByOrder[h.ID]; len(hist) > 0 {
			sort.SliceStable(hist, func(i, j int) bool { return hist[i].Date.Before(hist[j].Date) })
			o.Interactions = hist
		}
		out = append(out, o)
	}
	return out, nil
}

// UpdateStatus mueve el pedido de columna. Un fallo remoto se registra y no se informa.
func (a *Aggregator) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	st, ok := entity.ParseOrderStatus(string(status))
	if !ok {
		return domain.NewValidationError("status", fmt.Sprintf("estado desconocido %q", status))
	}
	a.orders.UpdateHeader(ctx, id, repository.OrderHeaderPatch{Status: &st})
	return nil
}

// Update edita cliente y notas. Un fallo remoto se registra y no se informa.
func (a *Aggregator) Update(ctx context.Context, id string, patch repository.OrderHeaderPatch) error {
	if patch.Status != nil {
		st, ok := entity.ParseOrderStatus(string(*patch.Status))
		if !ok {
			return domain.NewValidationError("status", fmt.Sprintf("estado desconocido %q", *patch.Status))
		}
		patch.Status = &st
	}
	a.orders.UpdateHeader(ctx, id, patch)
	return nil
}

// Delete borra el pedido. Un fallo remoto se registra y no se informa.
func (a *Aggregator) Delete(ctx context.Context, id string) {
	a.orders.Delete(ctx, id)
}

// AddInteraction agrega una entrada al historial con ID y fecha generados aquí.
func (a *Aggregator) AddInteraction(ctx context.Context, orderID string, typ entity.InteractionType, content, author string) (*entity.CRMInteraction, error) {
	t, ok := entity.ParseInteractionType(string(typ))
	if !ok {
		return nil, domain.NewValidationError("type", fmt.Sprintf("tipo desconocido %q", typ))
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.NewValidationError("content", "es obligatorio")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.NewValidationError("order_id", "es obligatorio")
	}
	in := &entity.OrderInteraction{
		OrderID: orderID,
		Interaction: entity.CRMInteraction{
			ID:         uuid.NewString(),
			Date:       a.now().UTC(),
			Type:       t,
			Content:    content,
			AuthorName: author,
		},
	}
	if err := a.orders.AddInteraction(ctx, in); err != nil {
		return nil, fmt.Errorf("agregar interacción: %w", err)
	}
	return &in.Interaction, nil
}
