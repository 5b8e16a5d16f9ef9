package auth

import svc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"

// Controllers agrupa los controllers de auth.
type Controllers struct {
	Register      *RegisterController
	Login         *LoginController
	Availability  *AvailabilityController
	PasswordReset *PasswordResetController
	Logout        *LogoutController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Register:      NewRegisterController(s.Register),
		Login:         NewLoginController(s.Login),
		Availability:  NewAvailabilityController(s.Availability),
		PasswordReset: NewPasswordResetController(s.PasswordReset),
		Logout:        NewLogoutController(s.Logout),
	}
}
