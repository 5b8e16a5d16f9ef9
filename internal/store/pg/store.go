// Package pg implementa repository.Store sobre PostgreSQL con pgxpool.
package pg

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// ErrSessionReleased se devuelve al usar una sesión ya liberada.
var ErrSessionReleased = errors.New("pg: session released")

// Options ajusta el pool. Ceros = defaults de pgxpool.
type Options struct {
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

type Store struct{ pool *pgxpool.Pool }

// New abre el pool. El ping inicial es best-effort: si la base todavía no
// está arriba el server arranca igual y /readyz lo reporta.
func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxConns > 0 {
		pcfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		pcfg.MinConns = int32(opts.MinConns)
	}
	if opts.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = opts.ConnMaxLifetime
		pcfg.MaxConnIdleTime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	log := logger.From(ctx).With(logger.Component("store.pg"))
	if err := pool.Ping(ctx); err != nil {
		log.Warn("pg_pool_startup_ping_failed", logger.Err(err))
	} else {
		log.Info("pg_pool_ready", zap.Int32("max_conns", pcfg.MaxConns))
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool (migraciones).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Acquire toma una conexión dedicada del pool hasta Release.
func (s *Store) Acquire(ctx context.Context) (repository.Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &session{conn: conn, q: conn, begin: conn, released: &atomic.Bool{}}, nil
}

// querier es lo común entre *pgxpool.Conn y pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type session struct {
	conn     *pgxpool.Conn // nil en sesiones de tx
	q        querier
	begin    beginner
	released *atomic.Bool
}

func (s *session) Accounts() repository.AccountRepository { return &accountRepo{s: s} }
func (s *session) Entries() repository.EntryRepository    { return &entryRepo{s: s} }

func (s *session) Release() {
	if s.conn == nil {
		return
	}
	if s.released.CompareAndSwap(false, true) {
		s.conn.Release()
	}
}

func (s *session) check() error {
	if s.released.Load() {
		return ErrSessionReleased
	}
	return nil
}

// InTx usa pgx.BeginFunc; anidado dentro de otra tx se convierte en savepoint.
func (s *session) InTx(ctx context.Context, fn func(tx repository.Session) error) error {
	if err := s.check(); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.begin, func(tx pgx.Tx) error {
		return fn(&session{q: tx, begin: tx, released: s.released})
	})
}
