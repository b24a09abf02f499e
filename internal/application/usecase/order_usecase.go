package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// Actor usuario autenticado que ejecuta la operación.
type Actor struct {
	UserID string
	Name   string
	Role   entity.Role
}

// canSeeAll supervisores y administradores ven todos los pedidos; un representante solo los suyos.
func (a Actor) canSeeAll() bool {
	return a.Role == entity.RoleAdmin || a.Role == entity.RoleSupervisor
}

func (a Actor) owns(o *entity.Order) bool {
	return a.canSeeAll() || o.RepresentativeID == a.UserID
}

// OrderUseCase casos de uso de pedidos sobre el agregador.
type OrderUseCase struct {
	orders   *orders.Aggregator
	products repository.ProductRepository
	users    repository.UserRepository
	pdf      ports.OrderPDFGenerator
	log      *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(agg *orders.Aggregator, products repository.ProductRepository, users repository.UserRepository, pdf ports.OrderPDFGenerator, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{orders: agg, products: products, users: users, pdf: pdf, log: log}
}

// Create da de alta el pedido. Sin representative_id se usa el usuario autenticado.
func (uc *OrderUseCase) Create(ctx context.Context, actor Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	repID := strings.TrimSpace(in.RepresentativeID)
	if repID == "" {
		repID = actor.UserID
	}
	if !actor.canSeeAll() && repID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	// Copia del producto solo para la respuesta; si el remoto no responde el alta fallará igualmente.
	snapshot, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		uc.log.Warn().Err(err).Str("entity", "product").Str("op", "get_by_ids").Int("ids", len(ids)).
			Msg("sin copia de productos para la respuesta del pedido")
	}

	items := make([]entity.CartItem, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := snapshot[it.ProductID]
		if !ok {
			p = entity.Product{ID: it.ProductID, Colors: []string{}}
		}
		items = append(items, entity.CartItem{Product: p, Quantity: it.Quantity})
	}

	created, err := uc.orders.Create(ctx, orders.NewOrder{
		CustomerName:     in.CustomerName,
		CustomerContact:  in.CustomerContact,
		RepresentativeID: repID,
		Notes:            in.Notes,
		Items:            items,
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(created), nil
}

// List pedidos visibles para el actor. Vacío si el remoto no responde.
func (uc *OrderUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) *dto.OrderListResponse {
	all := uc.orders.List(ctx)
	items := make([]dto.OrderResponse, 0, len(all))
	for i := range all {
		if actor.owns(&all[i]) {
			items = append(items, *toOrderResponse(&all[i]))
		}
	}
	items, meta := dto.Paginate(items, page)
	return &dto.OrderListResponse{Items: items, Page: meta}
}

// Get pedido completo; un representante solo accede a los suyos.
func (uc *OrderUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.OrderResponse, error) {
	o, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

func (uc *OrderUseCase) get(ctx context.Context, actor Actor, id string) (*entity.Order, error) {
	o, err := uc.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(o) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// ListOrphans cabeceras sin ítems, para revisión administrativa.
func (uc *OrderUseCase) ListOrphans(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	list, err := uc.orders.ListOrphans(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for i := range list {
		items = append(items, *toOrderResponse(&list[i]))
	}
	items, meta := dto.Paginate(items, page)
	return &dto.OrderListResponse{Items: items, Page: meta}, nil
}

// UpdateStatus cambia el estado. Los fallos remotos no se informan.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateOrderStatusRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	return uc.orders.UpdateStatus(ctx, id, entity.OrderStatus(in.Status))
}

// Update edita cliente y notas. Los fallos remotos no se informan.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	return uc.orders.Update(ctx, id, repository.OrderHeaderPatch{
		CustomerName:    in.CustomerName,
		CustomerContact: in.CustomerContact,
		Notes:           in.Notes,
	})
}

// Delete borra el pedido. Los fallos remotos no se informan.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) {
	uc.orders.Delete(ctx, id)
}

// AddInteraction registra una entrada en el historial firmada con el nombre del actor.
func (uc *OrderUseCase) AddInteraction(ctx context.Context, actor Actor, orderID string, in dto.AddInteractionRequest) (*dto.InteractionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	author := actor.Name
	if author == "" {
		author = actor.UserID
	}
	created, err := uc.orders.AddInteraction(ctx, orderID, entity.InteractionType(in.Type), in.Content, author)
	if err != nil {
		return nil, err
	}
	res := toInteractionResponse(*created)
	return &res, nil
}

// PDF genera el resumen imprimible. Devuelve bytes y nombre de archivo.
func (uc *OrderUseCase) PDF(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	o, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	// El representante es solo informativo: si no se puede leer, el PDF sale sin él.
	rep, err := uc.users.GetByID(ctx, o.RepresentativeID)
	if err != nil {
		uc.log.Debug().Err(err).Str("order_id", o.ID).Msg("pdf sin datos del representante")
	}

	data, err := uc.pdf.GenerateOrderPDF(ctx, o, rep)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return data, fmt.Sprintf("pedido_%s.pdf", shortID(o.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, dto.OrderItemResponse{
			Product:  *toProductResponse(&o.Items[i].Product),
			Quantity: o.Items[i].Quantity,
		})
	}
	history := make([]dto.InteractionResponse, 0, len(o.Interactions))
	for _, in := range o.Interactions {
		history = append(history, toInteractionResponse(in))
	}
	return &dto.OrderResponse{
		ID:               o.ID,
		CustomerName:     o.CustomerName,
		CustomerContact:  o.CustomerContact,
		RepresentativeID: o.RepresentativeID,
		Items:            items,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt,
		Notes:            o.Notes,
		Interactions:     history,
		Origin:           string(entity.ResolveOrigin(o.Origin, o.ID)),
	}
}

func toInteractionResponse(in entity.CRMInteraction) dto.InteractionResponse {
	return dto.InteractionResponse{
		ID:         in.ID,
		Date:       in.Date,
		Type:       string(in.Type),
		Content:    in.Content,
		AuthorName: in.AuthorName,
	}
}
