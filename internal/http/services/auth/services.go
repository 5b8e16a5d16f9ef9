package auth

import (
	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/email"
	jwtx "github.com/dropDatabas3/michelangelo/internal/jwt"
	"github.com/dropDatabas3/michelangelo/internal/security/password"
)

// Deps contiene las dependencias compartidas por los services de auth.
type Deps struct {
	Store  repository.Store
	Tokens *jwtx.Service
	Hasher password.Hasher
	Mailer email.Mailer

	// FrontendURL es la base de los links de reset.
	FrontendURL string
	// UnifyLoginErrors colapsa identifier-not-found y wrong-password.
	UnifyLoginErrors bool
	// ResetSingleUse revoca el jti del token de reset tras usarlo.
	ResetSingleUse bool
	// DebugEchoLinks devuelve el link de reset en la respuesta (sólo dev).
	DebugEchoLinks bool
}

// Services agrupa los services de auth.
type Services struct {
	Register      RegisterService
	Login         LoginService
	Availability  AvailabilityService
	PasswordReset PasswordResetService
	Logout        LogoutService
	Resolver      ResolverService
}

func NewServices(d Deps) Services {
	return Services{
		Register:      NewRegisterService(d),
		Login:         NewLoginService(d),
		Availability:  NewAvailabilityService(d),
		PasswordReset: NewPasswordResetService(d),
		Logout:        NewLogoutService(d),
		Resolver:      NewResolver(d),
	}
}
