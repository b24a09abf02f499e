package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderHeaderPatch campos editables de la cabecera; nil = sin cambio.
type OrderHeaderPatch struct {
	Status          *entity.OrderStatus
	CustomerName    *string
	CustomerContact *string
	Notes           *string
}

// IsEmpty indica si el patch no cambia nada.
func (p OrderHeaderPatch) IsEmpty() bool {
	return p.Status == nil && p.CustomerName == nil && p.CustomerContact == nil && p.Notes == nil
}

// OrderRepository define el puerto de persistencia de las tablas de pedidos.
// La composición del pedido completo la hace el agregador de pedidos.
type OrderRepository interface {
	ListHeaders(ctx context.Context) ([]entity.OrderHeader, error)
	GetHeader(ctx context.Context, id string) (*entity.OrderHeader, error)
	// CreateHeader inserta la cabecera y completa ID y CreatedAt con lo generado por el almacén.
	CreateHeader(ctx context.Context, header *entity.OrderHeader) error
	CreateItems(ctx context.Context, items []entity.OrderItem) error
	ListItems(ctx context.Context, orderIDs []string) ([]entity.OrderItem, error)
	ListInteractions(ctx context.Context, orderIDs []string) ([]entity.OrderInteraction, error)
	AddInteraction(ctx context.Context, in *entity.OrderInteraction) error
	// UpdateHeader y Delete no devuelven error: los fallos remotos se registran y se descartan.
	UpdateHeader(ctx context.Context, id string, patch OrderHeaderPatch)
	Delete(ctx context.Context, id string)
}
