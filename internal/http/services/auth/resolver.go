package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
)

type resolver struct {
	deps Deps
}

func NewResolver(d Deps) ResolverService {
	return &resolver{deps: d}
}

// Resolve verifica el token de sesión y relee la cuenta por email en cada
// llamada. Token inválido => ErrUnauthorized; cuenta inexistente =>
// ErrAccountNotFound (404, distinto del 401).
func (r *resolver) Resolve(ctx context.Context, token string) (*types.Account, *jwtx.Claims, error) {
	claims, err := r.deps.Tokens.Verify(ctx, token, jwtx.PurposeSession)
	if err != nil {
		if errors.Is(err, jwtx.ErrInvalidToken) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("verify session: %w", err)
	}

	sess, err := r.deps.Store.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Release()

	acc, err := sess.Accounts().GetByEmail(ctx, claims.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, fmt.Errorf("lookup account: %w", err)
	}
	return acc, claims, nil
}
