// Package store elige el backend de repository.Store según la configuración.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/michelangelo/internal/config"
	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/store/memory"
	"github.com/dropDatabas3/michelangelo/internal/store/pg"
)

// Migrator lo implementan los backends con esquema versionado.
type Migrator interface {
	Migrate(ctx context.Context, direction string) error
}

// Open abre el store configurado. Con flags.migrate y backend migrable
// aplica las migraciones pendientes antes de devolverlo.
func Open(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	var st repository.Store
	switch strings.ToLower(cfg.Storage.Driver) {
	case "postgres", "pg", "postgresql":
		p, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			MinConns:        cfg.Storage.Postgres.MinConns,
			ConnMaxLifetime: config.Duration(cfg.Storage.Postgres.ConnMaxLifetime, 0),
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		st = p
	case "memory":
		st = memory.New()
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}

	if cfg.Flags.Migrate {
		if err := Migrate(ctx, st, "up"); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// Migrate corre la migración si el backend la soporta; en memoria no hace nada.
func Migrate(ctx context.Context, st repository.Store, direction string) error {
	m, ok := st.(Migrator)
	if !ok {
		return nil
	}
	if err := m.Migrate(ctx, direction); err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
