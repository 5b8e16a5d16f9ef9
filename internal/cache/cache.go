// Package cache provee un key/value con TTL multi-backend.
//
// Soporta:
//   - memory (in-process, go-cache; dev y tests)
//   - redis (compartido entre réplicas)
//
// Lo usa la denylist de tokens revocados.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/michelangelo/internal/config"
)

// Client define las operaciones de cache.
type Client interface {
	// Get retorna ErrNotFound si la key no existe o expiró.
	Get(ctx context.Context, key string) (string, error)
	// Set guarda un valor; ttl 0 = sin expiración.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New crea el cliente según cache.kind y verifica la conexión.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.Cache.Kind {
	case "redis":
		c := NewRedis(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.Ping(pctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("cache: redis ping failed: %w", err)
		}
		return c, nil
	case "memory", "":
		return NewMemory(cfg.Cache.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Cache.Kind)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
