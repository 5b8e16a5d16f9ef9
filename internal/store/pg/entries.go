package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

type entryRepo struct{ s *session }

const entryCols = `id::text, account_id, kind, amount_cents, currency, category, description,
	occurred_on, created_at, updated_at`

func scanEntry(row pgx.Row) (*types.Entry, error) {
	var e types.Entry
	var kind string
	err := row.Scan(&e.ID, &e.AccountID, &kind, &e.AmountCents, &e.Currency, &e.Category, &e.Description,
		&e.OccurredOn, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Kind = types.EntryKind(kind)
	return &e, nil
}

// where arma el WHERE común a List y Summary.
func where(accountID int64, f types.EntryFilter) (string, []any) {
	conds := []string{"account_id = $1"}
	args := []any{accountID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if f.From != nil {
		add("occurred_on >= $%d", *f.From)
	}
	if f.To != nil {
		add("occurred_on <= $%d", *f.To)
	}
	return strings.Join(conds, " AND "), args
}

func (r *entryRepo) Create(ctx context.Context, e *types.Entry) error {
	if err := r.s.check(); err != nil {
		return err
	}
	const q = `
		INSERT INTO ledger_entries (id, account_id, kind, amount_cents, currency, category, description, occurred_on)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err := r.s.q.QueryRow(ctx, q,
		e.ID, e.AccountID, string(e.Kind), e.AmountCents, e.Currency, e.Category, e.Description, e.OccurredOn,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return mapErr("create entry", err)
}

func (r *entryRepo) Get(ctx context.Context, accountID int64, id string) (*types.Entry, error) {
	if err := r.s.check(); err != nil {
		return nil, err
	}
	e, err := scanEntry(r.s.q.QueryRow(ctx,
		`SELECT `+entryCols+` FROM ledger_entries WHERE id::text = $1 AND account_id = $2`, id, accountID))
	if err != nil {
		return nil, mapErr("get entry", err)
	}
	return e, nil
}

func (r *entryRepo) List(ctx context.Context, accountID int64, f types.EntryFilter) ([]types.Entry, error) {
	if err := r.s.check(); err != nil {
		return nil, err
	}
	w, args := where(accountID, f)
	q := `SELECT ` + entryCols + ` FROM ledger_entries WHERE ` + w +
		` ORDER BY occurred_on DESC, created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr("list entries", err)
	}
	defer rows.Close()

	out := []types.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapErr("scan entry", err)
		}
		out = append(out, *e)
	}
	return out, mapErr("list entries", rows.Err())
}

func (r *entryRepo) Update(ctx context.Context, e *types.Entry) error {
	if err := r.s.check(); err != nil {
		return err
	}
	const q = `
		UPDATE ledger_entries SET
			kind = $3, amount_cents = $4, currency = $5, category = $6,
			description = $7, occurred_on = $8, updated_at = NOW()
		WHERE id::text = $1 AND account_id = $2
		RETURNING created_at, updated_at`
	err := r.s.q.QueryRow(ctx, q,
		e.ID, e.AccountID, string(e.Kind), e.AmountCents, e.Currency, e.Category, e.Description, e.OccurredOn,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return mapErr("update entry", err)
}

func (r *entryRepo) Delete(ctx context.Context, accountID int64, id string) error {
	if err := r.s.check(); err != nil {
		return err
	}
	tag, err := r.s.q.Exec(ctx, `DELETE FROM ledger_entries WHERE id::text = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return mapErr("delete entry", err)
	}
	if tag.RowsAffected() == 0 {
		return mapErr("delete entry", pgx.ErrNoRows)
	}
	return nil
}

func (r *entryRepo) Summary(ctx context.Context, accountID int64, f types.EntryFilter) ([]types.CurrencyTotals, error) {
	if err := r.s.check(); err != nil {
		return nil, err
	}
	w, args := where(accountID, f)
	q := `
		SELECT currency,
			COALESCE(SUM(amount_cents) FILTER (WHERE kind = 'income'), 0)::bigint,
			COALESCE(SUM(amount_cents) FILTER (WHERE kind = 'expense'), 0)::bigint
		FROM ledger_entries WHERE ` + w + `
		GROUP BY currency ORDER BY currency`

	rows, err := r.s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr("summary", err)
	}
	defer rows.Close()

	out := []types.CurrencyTotals{}
	for rows.Next() {
		var t types.CurrencyTotals
		if err := rows.Scan(&t.Currency, &t.IncomeCents, &t.ExpenseCents); err != nil {
			return nil, mapErr("scan summary", err)
		}
		out = append(out, t)
	}
	return out, mapErr("summary", rows.Err())
}
