package localcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
)

var _ ports.LocalCache = (*FileCache)(nil)

var kindPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// FileCache un archivo JSON por tipo de entidad dentro de dir.
// Cada Put se vuelca a disco (temporal + rename) antes de volver.
type FileCache struct {
	dir string
}

// OpenFileCache abre (y crea si falta) el directorio de la caché. Se llama una vez al arrancar.
func OpenFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("caché local: directorio vacío")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("caché local: crear %s: %w", dir, err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) path(kind string) (string, error) {
	if !kindPattern.MatchString(kind) {
		return "", fmt.Errorf("caché local: tipo inválido %q", kind)
	}
	return filepath.Join(c.dir, kind+".json"), nil
}

// Get lee el slot desde disco.
func (c *FileCache) Get(_ context.Context, kind string) ([]byte, bool, error) {
	p, err := c.path(kind)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("caché local: leer %s: %w", kind, err)
	}
	return data, true, nil
}

// Put escribe el slot completo de forma atómica.
func (c *FileCache) Put(_ context.Context, kind string, data []byte) error {
	p, err := c.path(kind)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, kind+"-*.tmp")
	if err != nil {
		return fmt.Errorf("caché local: temporal %s: %w", kind, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("caché local: escribir %s: %w", kind, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("caché local: sync %s: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("caché local: cerrar %s: %w", kind, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("caché local: rename %s: %w", kind, err)
	}
	return nil
}

// Clear elimina el slot; no es error si no existía.
func (c *FileCache) Clear(_ context.Context, kind string) error {
	p, err := c.path(kind)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("caché local: borrar %s: %w", kind, err)
	}
	return nil
}

// Close no mantiene descriptores abiertos entre operaciones.
func (c *FileCache) Close() error { return nil }
