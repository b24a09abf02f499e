package localcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/redis/go-redis/v9"
)

var _ ports.LocalCache = (*RedisCache)(nil)

const defaultRedisPrefix = "pedidos:cache:"

// RedisConfig datos de conexión a un Redis local (p. ej. en el mismo equipo o kiosco).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache un key por tipo de entidad, sin TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache conecta y verifica con PING.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return NewRedisCacheWithClient(client, ""), nil
}

// NewRedisCacheWithClient usa un cliente existente. prefix vacío = "pedidos:cache:".
func NewRedisCacheWithClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, kind string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+kind).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", kind, err)
	}
	return data, true, nil
}

func (c *RedisCache) Put(ctx context.Context, kind string, data []byte) error {
	if err := c.client.Set(ctx, c.prefix+kind, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", kind, err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context, kind string) error {
	if err := c.client.Del(ctx, c.prefix+kind).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", kind, err)
	}
	return nil
}

// Close cierra el cliente.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
