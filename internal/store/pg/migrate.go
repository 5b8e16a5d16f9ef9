package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	migrations "github.com/dropDatabas3/michelangelo/migrations/postgres"
)

// Migrate aplica (up), revierte una (down) o lista (status) las migraciones
// embebidas usando goose sobre el mismo pool.
func (s *Store) Migrate(ctx context.Context, direction string) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch direction {
	case "up":
		return goose.UpContext(ctx, db, migrations.Dir)
	case "down":
		return goose.DownContext(ctx, db, migrations.Dir)
	case "status":
		return goose.StatusContext(ctx, db, migrations.Dir)
	default:
		return fmt.Errorf("migrate: unknown direction %q", direction)
	}
}
