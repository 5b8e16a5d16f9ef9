package pg

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

func TestMapErr(t *testing.T) {
	require.NoError(t, mapErr("x", nil))
	assert.ErrorIs(t, mapErr("x", pgx.ErrNoRows), repository.ErrNotFound)

	err := mapErr("create", &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, repository.FieldEmail, repository.ConflictField(err))

	err = mapErr("create", &pgconn.PgError{Code: "23505", ConstraintName: "accounts_username_key"})
	assert.Equal(t, repository.FieldUsername, repository.ConflictField(err))

	boom := errors.New("boom")
	err = mapErr("create", boom)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, repository.ErrConflict))
}

func TestWhere(t *testing.T) {
	w, args := where(7, types.EntryFilter{})
	assert.Equal(t, "account_id = $1", w)
	assert.Equal(t, []any{int64(7)}, args)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	w, args = where(7, types.EntryFilter{Kind: types.EntryExpense, From: &from, To: &to})
	assert.Equal(t, "account_id = $1 AND kind = $2 AND occurred_on >= $3 AND occurred_on <= $4", w)
	assert.Len(t, args, 4)
}
