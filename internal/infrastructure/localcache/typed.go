// Package localcache implementa la caché durable del dispositivo (respaldo de lecturas
// cuando el remoto no responde) y la (de)serialización tipada de cada slot.
package localcache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// Load lee el slot kind como []T. Nunca falla: sin slot o ilegible devuelve vacío.
// Un slot ilegible se descarta (Clear) para no volver a tropezar con él.
func Load[T any](ctx context.Context, c ports.LocalCache, kind string, log *logger.Logger) []T {
	data, ok, err := c.Get(ctx, kind)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("caché local: lectura fallida")
		return []T{}
	}
	if !ok || len(data) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		derr := &domain.DeserializationError{Kind: kind, Err: err}
		log.Warn().Err(derr).Str("kind", kind).Msg("caché local: slot descartado")
		if cerr := c.Clear(ctx, kind); cerr != nil {
			log.Warn().Err(cerr).Str("kind", kind).Msg("caché local: no se pudo limpiar el slot")
		}
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save reemplaza el slot kind con items.
func Save[T any](ctx context.Context, c ports.LocalCache, kind string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", kind, err)
	}
	if err := c.Put(ctx, kind, data); err != nil {
		return fmt.Errorf("guardar %s: %w", kind, err)
	}
	return nil
}
