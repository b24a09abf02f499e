package datastore

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo tablas orders, order_items e interactions. Sin respaldo local para pedidos.
type OrderRepo struct {
	store ports.RemoteStore
	log   *logger.Logger
}

// NewOrderRepository construye el repositorio de pedidos.
func NewOrderRepository(store ports.RemoteStore, log *logger.Logger) *OrderRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderRepo{store: store, log: log}
}

// ListHeaders cabeceras más recientes primero.
func (r *OrderRepo) ListHeaders(ctx context.Context) ([]entity.OrderHeader, error) {
	rows, err := r.store.Query(ctx, tableOrders, ports.Filter{OrderBy: "created_at", Descending: true})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	headers := make([]entity.OrderHeader, 0, len(rows))
	for _, row := range rows {
		headers = append(headers, headerFromRow(row))
	}
	return headers, nil
}

// GetHeader devuelve nil, nil si no existe.
func (r *OrderRepo) GetHeader(ctx context.Context, id string) (*entity.OrderHeader, error) {
	if !remoteID(id) {
		return nil, nil
	}
	rows, err := r.store.Query(ctx, tableOrders, ports.Filter{
		Where: []ports.Condition{ports.Eq("id", id)},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := headerFromRow(rows[0])
	return &h, nil
}

// CreateHeader paso 1 del alta: el remoto genera id y created_at.
func (r *OrderRepo) CreateHeader(ctx context.Context, header *entity.OrderHeader) error {
	rows, err := r.store.Insert(ctx, tableOrders, []ports.Row{headerToRow(header)})
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("insert order: el remoto no devolvió la cabecera creada")
	}
	created := headerFromRow(rows[0])
	header.ID = created.ID
	header.CreatedAt = created.CreatedAt
	header.Status = created.Status
	header.Origin = created.Origin
	return nil
}

// CreateItems paso 2 del alta: todos los ítems en una sola inserción.
func (r *OrderRepo) CreateItems(ctx context.Context, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]ports.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, itemToRow(it))
	}
	if _, err := r.store.Insert(ctx, tableOrderItems, rows); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (r *OrderRepo) ListItems(ctx context.Context, orderIDs []string) ([]entity.OrderItem, error) {
	orderIDs = remoteIDs(orderIDs)
	if len(orderIDs) == 0 {
		return []entity.OrderItem{}, nil
	}
	rows, err := r.store.Query(ctx, tableOrderItems, ports.Filter{
		Where: []ports.Condition{ports.In("order_id", orderIDs)},
	})
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	items := make([]entity.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

// ListInteractions historial en orden cronológico.
func (r *OrderRepo) ListInteractions(ctx context.Context, orderIDs []string) ([]entity.OrderInteraction, error) {
	orderIDs = remoteIDs(orderIDs)
	if len(orderIDs) == 0 {
		return []entity.OrderInteraction{}, nil
	}
	rows, err := r.store.Query(ctx, tableInteractions, ports.Filter{
		Where:   []ports.Condition{ports.In("order_id", orderIDs)},
		OrderBy: "date",
	})
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	out := make([]entity.OrderInteraction, 0, len(rows))
	for _, row := range rows {
		out = append(out, interactionFromRow(row))
	}
	return out, nil
}

// AddInteraction agrega una entrada al historial (no hay edición ni borrado).
func (r *OrderRepo) AddInteraction(ctx context.Context, in *entity.OrderInteraction) error {
	rows, err := r.store.Insert(ctx, tableInteractions, []ports.Row{interactionToRow(in)})
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	if len(rows) > 0 {
		created := interactionFromRow(rows[0])
		in.Interaction.ID = created.Interaction.ID
		if !created.Interaction.Date.IsZero() {
			in.Interaction.Date = created.Interaction.Date
		}
	}
	return nil
}

// UpdateHeader aplica el patch. Un fallo remoto se registra y no llega al llamador.
func (r *OrderRepo) UpdateHeader(ctx context.Context, id string, patch repository.OrderHeaderPatch) {
	if patch.IsEmpty() {
		return
	}
	row := ports.Row{}
	if patch.Status != nil {
		row["status"] = string(*patch.Status)
	}
	if patch.CustomerName != nil {
		row["customer_name"] = *patch.CustomerName
	}
	if patch.CustomerContact != nil {
		row["customer_contact"] = *patch.CustomerContact
	}
	if patch.Notes != nil {
		row["notes"] = *patch.Notes
	}
	if !remoteID(id) {
		r.log.Warn().Str("entity", "order").Str("op", "update").Str("order_id", id).Msg("pedido sin ID remoto, actualización descartada")
		return
	}
	if err := r.store.Update(ctx, tableOrders, id, row); err != nil {
		r.log.Warn().Err(err).Str("entity", "order").Str("op", "update").Str("order_id", id).Msg("fallo al actualizar pedido (descartado)")
	}
}

// Delete borra la cabecera (ítems e historial caen en cascada). Un fallo remoto se registra y no llega al llamador.
func (r *OrderRepo) Delete(ctx context.Context, id string) {
	if !remoteID(id) {
		r.log.Warn().Str("entity", "order").Str("op", "delete").Str("order_id", id).Msg("pedido sin ID remoto, borrado descartado")
		return
	}
	if err := r.store.Delete(ctx, tableOrders, id); err != nil {
		r.log.Warn().Err(err).Str("entity", "order").Str("op", "delete").Str("order_id", id).Msg("fallo al borrar pedido (descartado)")
	}
}

// OrderTxRunner ejecuta fn con un OrderRepository atado a una transacción del remoto.
type OrderTxRunner struct {
	tx  ports.TxRunner
	log *logger.Logger
}

// NewOrderTxRunner adapta el TxRunner del almacén a repositorios de pedidos.
func NewOrderTxRunner(tx ports.TxRunner, log *logger.Logger) *OrderTxRunner {
	return &OrderTxRunner{tx: tx, log: log}
}

// Run commit si fn devuelve nil; rollback en cualquier otro caso.
func (r *OrderTxRunner) Run(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	return r.tx.Run(ctx, func(store ports.RemoteStore) error {
		return fn(NewOrderRepository(store, r.log))
	})
}
