package pg

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
)

const pgUniqueViolation = "23505"

// constraint → campo de dominio
var uniqueFields = map[string]string{
	"accounts_email_key":     repository.FieldEmail,
	"accounts_username_key":  repository.FieldUsername,
	"accounts_public_id_key": "public_id",
	"ledger_entries_pkey":    "id",
}

// mapErr traduce errores de pgx a los sentinels del repositorio.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		field, ok := uniqueFields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return &repository.ConflictError{Field: field}
	}
	return fmt.Errorf("pg %s: %w", op, err)
}
