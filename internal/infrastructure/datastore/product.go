// Package datastore implementa los repositorios de entidades sobre el almacén remoto,
// con la política de respaldo propia de cada entidad.
package datastore

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/localcache"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos: remoto primero; si la lectura falla, última foto guardada en la caché local.
type ProductRepo struct {
	store ports.RemoteStore
	cache ports.LocalCache
	log   *logger.Logger
}

// NewProductRepository construye el repositorio de productos.
func NewProductRepository(store ports.RemoteStore, cache ports.LocalCache, log *logger.Logger) *ProductRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductRepo{store: store, cache: cache, log: log}
}

// List devuelve el catálogo. Con el remoto caído devuelve la foto de la caché (vacía si nunca se guardó).
func (r *ProductRepo) List(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.store.Query(ctx, tableProducts, ports.Filter{OrderBy: "code"})
	if err != nil {
		r.log.Warn().Err(err).Str("entity", "product").Str("op", "list").Msg("remoto no disponible, usando caché local")
		return r.cached(ctx), nil
	}

	products := make([]entity.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromRow(row))
	}
	if err := localcache.Save(ctx, r.cache, ports.CacheKindProducts, products); err != nil {
		r.log.Warn().Err(err).Str("entity", "product").Msg("no se pudo actualizar la caché local")
	}
	return products, nil
}

func (r *ProductRepo) cached(ctx context.Context) []entity.Product {
	products := localcache.Load[entity.Product](ctx, r.cache, ports.CacheKindProducts, r.log)
	for i := range products {
		products[i].Origin = entity.ResolveOrigin(products[i].Origin, products[i].ID)
	}
	return products
}

// GetByID devuelve nil, nil si el producto no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !remoteID(id) {
		return nil, nil
	}
	rows, err := r.store.Query(ctx, tableProducts, ports.Filter{
		Where: []ports.Condition{ports.Eq("id", id)},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := productFromRow(rows[0])
	return &p, nil
}

// GetByIDs resuelve varios productos en una sola consulta.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	out := make(map[string]entity.Product)
	ids = remoteIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.store.Query(ctx, tableProducts, ports.Filter{
		Where: []ports.Condition{ports.In("id", ids)},
	})
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	for _, row := range rows {
		p := productFromRow(row)
		out[p.ID] = p
	}
	return out, nil
}

// Create inserta el producto y completa ID y Origin con lo que devolvió el remoto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	rows, err := r.store.Insert(ctx, tableProducts, []ports.Row{productToRow(product)})
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if len(rows) > 0 {
		created := productFromRow(rows[0])
		product.ID = created.ID
		product.Origin = created.Origin
	}
	return nil
}

// Update sobrescribe todos los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	if !remoteID(product.ID) {
		return fmt.Errorf("update product %s: %w", product.ID, domain.ErrNotFound)
	}
	if err := r.store.Update(ctx, tableProducts, product.ID, productToRow(product)); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	product.Origin = entity.OriginRemote
	return nil
}

// Delete elimina el producto. Los ítems de pedidos que lo referencian se leerán con el sustituto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !remoteID(id) {
		return fmt.Errorf("delete product %s: %w", id, domain.ErrNotFound)
	}
	if err := r.store.Delete(ctx, tableProducts, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// UpsertByCode envía el lote en una sola llamada; un código existente se sobrescribe.
func (r *ProductRepo) UpsertByCode(ctx context.Context, batch []entity.Product) error {
	if len(batch) == 0 {
		return nil
	}
	rows := make([]ports.Row, 0, len(batch))
	for i := range batch {
		rows = append(rows, productToRow(&batch[i]))
	}
	if err := r.store.Upsert(ctx, tableProducts, rows, "code"); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	return nil
}
