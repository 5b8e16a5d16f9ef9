// Package auth implementa registro, login, disponibilidad, reset de password,
// logout y la resolución de bearer tokens a cuentas.
package auth

import (
	"context"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
)

type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResult, error)
}

type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error)
}

// AvailabilityService responde si un username o email ya están tomados.
type AvailabilityService interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type PasswordResetService interface {
	ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error
}

// LogoutService revoca el token de sesión actual (requiere denylist).
type LogoutService interface {
	Logout(ctx context.Context, claims *jwtx.Claims) error
}

// ResolverService valida un token de sesión y devuelve la cuenta viva.
type ResolverService interface {
	Resolve(ctx context.Context, token string) (*types.Account, *jwtx.Claims, error)
}
