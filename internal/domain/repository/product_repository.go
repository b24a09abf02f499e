package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// List cae en la caché local si el remoto no responde; las escrituras siempre propagan el error.
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs devuelve solo los productos encontrados, indexados por ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// UpsertByCode inserta o sobrescribe por código en una sola llamada.
	UpsertByCode(ctx context.Context, batch []entity.Product) error
}
