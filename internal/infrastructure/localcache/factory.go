package localcache

import (
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/pkg/config"
)

// Open construye la caché según CACHE_DRIVER. El llamador es dueño del ciclo de vida (Close al apagar).
func Open(cfg config.CacheConfig) (ports.LocalCache, error) {
	switch cfg.Driver {
	case config.CacheDriverFile, "":
		return OpenFileCache(cfg.Dir)
	case config.CacheDriverRedis:
		return NewRedisCache(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.CacheDriverMemory:
		return NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("caché local: driver desconocido %q", cfg.Driver)
	}
}
