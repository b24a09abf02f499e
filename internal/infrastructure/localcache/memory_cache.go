package localcache

import (
	"context"
	"sync"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
)

var _ ports.LocalCache = (*MemoryCache)(nil)

// MemoryCache caché en memoria del proceso (sin durabilidad). Útil en tests o con la caché desactivada.
type MemoryCache struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryCache crea una caché vacía.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{slots: make(map[string][]byte)}
}

func (c *MemoryCache) Get(_ context.Context, kind string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.slots[kind]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (c *MemoryCache) Put(_ context.Context, kind string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	c.mu.Lock()
	c.slots[kind] = buf
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Clear(_ context.Context, kind string) error {
	c.mu.Lock()
	delete(c.slots, kind)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error { return nil }
