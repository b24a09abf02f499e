package ports

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderPDFGenerator genera el resumen imprimible de un pedido.
// representative puede ser nil si el perfil ya no existe.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, representative *entity.User) ([]byte, error)
}
