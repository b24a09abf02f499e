package ports

import "context"

// Tipos de entidad con slot propio en la caché local.
const (
	CacheKindProducts = "products"
)

// LocalCache almacén durable clave/valor en el dispositivo, un slot por tipo de entidad.
// No protege contra escritores concurrentes: gana la última escritura.
type LocalCache interface {
	// Get devuelve ok=false si el slot no existe.
	Get(ctx context.Context, kind string) (data []byte, ok bool, err error)
	Put(ctx context.Context, kind string, data []byte) error
	Clear(ctx context.Context, kind string) error
	Close() error
}
