package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	authsvc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// AccountResolver resuelve un bearer token a la cuenta viva
// (services/auth.ResolverService).
type AccountResolver interface {
	Resolve(ctx context.Context, token string) (*types.Account, *jwtx.Claims, error)
}

// RequireAccount exige un bearer token válido y deja cuenta y claims en el
// contexto. Sin header responde 401 TOKEN_MISSING; token inválido 401
// TOKEN_INVALID; cuenta borrada 404 ACCOUNT_NOT_FOUND.
func RequireAccount(res AccountResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := helpers.BearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			acc, claims, err := res.Resolve(r.Context(), tok)
			switch {
			case err == nil:
			case errors.Is(err, authsvc.ErrUnauthorized):
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			case errors.Is(err, authsvc.ErrAccountNotFound):
				httperrors.WriteError(w, httperrors.ErrAccountNotFound)
				return
			default:
				logger.From(r.Context()).Error("resolve account failed", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
				return
			}

			ctx := WithAccount(r.Context(), acc, claims)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.AccountID(acc.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
