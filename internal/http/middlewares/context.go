package middlewares

import (
	"context"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
)

type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxAccount
	ctxClaims
)

func setRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

// GetRequestID devuelve el request id o "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxRequestID).(string)
	return v
}

// WithAccount guarda la cuenta autenticada y sus claims. Exportado para tests
// de controllers que no pasan por RequireAccount.
func WithAccount(ctx context.Context, a *types.Account, c *jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxAccount, a)
	return context.WithValue(ctx, ctxClaims, c)
}

// GetAccount devuelve la cuenta resuelta por RequireAccount.
func GetAccount(ctx context.Context) (*types.Account, bool) {
	a, ok := ctx.Value(ctxAccount).(*types.Account)
	return a, ok && a != nil
}

func GetClaims(ctx context.Context) (*jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxClaims).(*jwtx.Claims)
	return c, ok && c != nil
}
