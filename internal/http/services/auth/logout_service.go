package auth

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/michelangelo/internal/audit"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

type logoutService struct {
	deps Deps
}

func NewLogoutService(d Deps) LogoutService {
	return &logoutService{deps: d}
}

// Logout agrega el jti de la sesión a la denylist hasta su expiración.
func (s *logoutService) Logout(ctx context.Context, claims *jwtx.Claims) error {
	if !s.deps.Tokens.RevocationEnabled() {
		return ErrRevocationDisabled
	}
	if err := s.deps.Tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	audit.Log(ctx, audit.SessionRevoked, logger.String("jti", claims.ID))
	return nil
}
