package jwt

import (
	"context"
	"time"

	"github.com/dropDatabas3/michelangelo/internal/cache"
)

// CacheDenylist guarda jtis revocados en un cache.Client.
type CacheDenylist struct {
	c cache.Client
}

func NewCacheDenylist(c cache.Client) *CacheDenylist {
	return &CacheDenylist{c: c}
}

func key(jti string) string { return "jti:" + jti }

func (d *CacheDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return d.c.Set(ctx, key(jti), "1", ttl)
}

func (d *CacheDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return d.c.Exists(ctx, key(jti))
}
