// Package profile implementa lectura y actualización parcial del perfil.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

const maxAttrLen = 128

var (
	ErrEmailInUse      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrAccountNotFound = errors.New("account not found")
)

// Service opera sobre la cuenta ya resuelta por el middleware de auth.
type Service interface {
	Get(ctx context.Context, acc *types.Account) (*types.Account, error)
	Update(ctx context.Context, acc *types.Account, patch types.ProfilePatch) (*Updated, error)
}

// Updated es el resultado de Update. El subject de la sesión es el email,
// así que si cambia se emite un token nuevo y los anteriores dejan de
// resolver la cuenta.
type Updated struct {
	Account     *types.Account
	AccessToken string
	ExpiresIn   int64
}

type Deps struct {
	Store repository.Store
	// Tokens puede ser nil: entonces un cambio de email no devuelve token.
	Tokens *jwtx.Service
}

type service struct {
	deps Deps
}

func NewService(d Deps) Service {
	return &service{deps: d}
}

// Get devuelve la cuenta tal como la leyó el resolver en este request.
func (s *service) Get(_ context.Context, acc *types.Account) (*types.Account, error) {
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// Update aplica el patch dentro de una transacción. Si cambian username o
// email se vuelve a chequear la unicidad, email primero.
func (s *service) Update(ctx context.Context, acc *types.Account, patch types.ProfilePatch) (*Updated, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("profile"),
		logger.Op("Update"),
	)
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	if err := normalize(&patch); err != nil {
		return nil, err
	}

	sess, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	var (
		out          *types.Account
		emailChanged bool
	)
	err = sess.InTx(ctx, func(tx repository.Session) error {
		repo := tx.Accounts()
		cur, err := repo.GetByPublicID(ctx, acc.PublicID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return err
		}

		if patch.Email != nil && *patch.Email != cur.Email {
			taken, err := repo.EmailExists(ctx, *patch.Email)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailInUse
			}
		}
		if patch.Username != nil && *patch.Username != cur.Username {
			taken, err := repo.UsernameExists(ctx, *patch.Username)
			if err != nil {
				return err
			}
			if taken {
				return ErrUsernameTaken
			}
		}

		prevEmail := cur.Email
		patch.Apply(cur)
		if err := repo.Update(ctx, cur); err != nil {
			return conflictErr(err)
		}
		out = cur
		emailChanged = cur.Email != prevEmail
		return nil
	})
	if err != nil {
		log.Debug("profile update failed", logger.Err(err))
		return nil, err
	}

	res := &Updated{Account: out}
	if emailChanged && s.deps.Tokens != nil {
		tok, err := s.deps.Tokens.IssueSession(out.Email)
		if err != nil {
			return nil, fmt.Errorf("issue session: %w", err)
		}
		res.AccessToken = tok.Token
		res.ExpiresIn = int64(s.deps.Tokens.SessionTTL().Seconds())
	}

	log.Info("profile updated", logger.AccountID(out.ID), logger.Bool("email_changed", emailChanged))
	return res, nil
}

// normalize recorta y valida los campos presentes.
func normalize(p *types.ProfilePatch) error {
	if p.Username != nil {
		v := strings.TrimSpace(*p.Username)
		if err := validation.Username("username", v); err != nil {
			return err
		}
		p.Username = &v
	}
	if p.Email != nil {
		v := types.NormalizeEmail(*p.Email)
		if err := validation.Email("email", v); err != nil {
			return err
		}
		p.Email = &v
	}
	attrs := []struct {
		field string
		v     **string
	}{
		{"display_name", &p.DisplayName},
		{"nickname", &p.Nickname},
		{"phone", &p.Phone},
		{"facebook", &p.Facebook},
		{"twitter", &p.Twitter},
		{"instagram", &p.Instagram},
		{"linkedin", &p.LinkedIn},
	}
	for _, a := range attrs {
		if *a.v == nil {
			continue
		}
		v := strings.TrimSpace(**a.v)
		if err := validation.MaxRunes(a.field, v, maxAttrLen); err != nil {
			return err
		}
		*a.v = &v
	}
	return nil
}

func conflictErr(err error) error {
	switch repository.ConflictField(err) {
	case repository.FieldEmail:
		return ErrEmailInUse
	case repository.FieldUsername:
		return ErrUsernameTaken
	}
	return err
}
