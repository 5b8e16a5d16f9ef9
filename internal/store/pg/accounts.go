package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

type accountRepo struct{ s *session }

const accountCols = `id, public_id::text, username, email, password_hash,
	display_name, nickname, phone, facebook, twitter, instagram, linkedin,
	created_at, updated_at`

func scanAccount(row pgx.Row) (*types.Account, error) {
	var a types.Account
	err := row.Scan(
		&a.ID, &a.PublicID, &a.Username, &a.Email, &a.PasswordHash,
		&a.DisplayName, &a.Nickname, &a.Phone, &a.Facebook, &a.Twitter, &a.Instagram, &a.LinkedIn,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) getBy(ctx context.Context, op, where string, arg any) (*types.Account, error) {
	if err := r.s.check(); err != nil {
		return nil, err
	}
	a, err := scanAccount(r.s.q.QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE `+where+` LIMIT 1`, arg))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return a, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*types.Account, error) {
	return r.getBy(ctx, "get account by email", `LOWER(email) = LOWER($1)`, email)
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*types.Account, error) {
	return r.getBy(ctx, "get account by username", `username = $1`, username)
}

func (r *accountRepo) GetByPublicID(ctx context.Context, publicID string) (*types.Account, error) {
	return r.getBy(ctx, "get account by public id", `public_id::text = $1`, publicID)
}

func (r *accountRepo) exists(ctx context.Context, op, where string, arg any) (bool, error) {
	if err := r.s.check(); err != nil {
		return false, err
	}
	var ok bool
	if err := r.s.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE `+where+`)`, arg).Scan(&ok); err != nil {
		return false, mapErr(op, err)
	}
	return ok, nil
}

func (r *accountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email exists", `LOWER(email) = LOWER($1)`, email)
}

func (r *accountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username exists", `username = $1`, username)
}

func (r *accountRepo) Create(ctx context.Context, a *types.Account) error {
	if err := r.s.check(); err != nil {
		return err
	}
	const q = `
		INSERT INTO accounts (
			public_id, username, email, password_hash,
			display_name, nickname, phone, facebook, twitter, instagram, linkedin
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.s.q.QueryRow(ctx, q,
		a.PublicID, a.Username, a.Email, a.PasswordHash,
		a.DisplayName, a.Nickname, a.Phone, a.Facebook, a.Twitter, a.Instagram, a.LinkedIn,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapErr("create account", err)
}

func (r *accountRepo) Update(ctx context.Context, a *types.Account) error {
	if err := r.s.check(); err != nil {
		return err
	}
	const q = `
		UPDATE accounts SET
			username = $2, email = $3,
			display_name = $4, nickname = $5, phone = $6,
			facebook = $7, twitter = $8, instagram = $9, linkedin = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.s.q.QueryRow(ctx, q,
		a.ID, a.Username, a.Email,
		a.DisplayName, a.Nickname, a.Phone, a.Facebook, a.Twitter, a.Instagram, a.LinkedIn,
	).Scan(&a.UpdatedAt)
	return mapErr("update account", err)
}

func (r *accountRepo) UpdatePassword(ctx context.Context, accountID int64, hash string) error {
	if err := r.s.check(); err != nil {
		return err
	}
	tag, err := r.s.q.Exec(ctx, `UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`, accountID, hash)
	if err != nil {
		return mapErr("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return mapErr("update password", pgx.ErrNoRows)
	}
	return nil
}
