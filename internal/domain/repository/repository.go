// Package repository define los contratos de almacenamiento del dominio.
//
//	services ──► repository (interfaces) ──► store/pg | store/memory
//
// Cada operación de negocio abre un Session con Store.Acquire y lo libera
// con Release en todos los caminos de salida (defer).
package repository

import (
	"context"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

// Store entrega sesiones con alcance de request.
type Store interface {
	Acquire(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
	Close()
}

// Session es una conexión tomada del store; Release la devuelve (idempotente).
type Session interface {
	Accounts() AccountRepository
	Entries() EntryRepository

	// InTx ejecuta fn dentro de una transacción: commit si fn devuelve nil,
	// rollback en otro caso. Los repositorios recibidos en fn usan la tx.
	InTx(ctx context.Context, fn func(tx Session) error) error

	Release()
}

// AccountRepository opera sobre cuentas. Emails se reciben ya normalizados.
type AccountRepository interface {
	// GetByEmail: ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*types.Account, error)
	// GetByUsername compara exacto (case-sensitive).
	GetByUsername(ctx context.Context, username string) (*types.Account, error)
	GetByPublicID(ctx context.Context, publicID string) (*types.Account, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// Create completa ID/CreatedAt/UpdatedAt. *ConflictError si email o username ya existen.
	Create(ctx context.Context, a *types.Account) error
	// Update persiste username, email y campos de perfil. *ConflictError por unicidad.
	Update(ctx context.Context, a *types.Account) error
	UpdatePassword(ctx context.Context, accountID int64, hash string) error
}

// EntryRepository opera sobre movimientos; todas las operaciones filtran por dueño.
type EntryRepository interface {
	Create(ctx context.Context, e *types.Entry) error
	// Get: ErrNotFound si no existe o pertenece a otra cuenta.
	Get(ctx context.Context, accountID int64, id string) (*types.Entry, error)
	List(ctx context.Context, accountID int64, f types.EntryFilter) ([]types.Entry, error)
	Update(ctx context.Context, e *types.Entry) error
	Delete(ctx context.Context, accountID int64, id string) error
	Summary(ctx context.Context, accountID int64, f types.EntryFilter) ([]types.CurrencyTotals, error)
}
