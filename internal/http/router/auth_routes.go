package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
)

func registerAuthRoutes(api chi.Router, d Deps, requireAccount mw.Middleware) {
	c := d.Auth
	api.Route("/auth", func(r chi.Router) {
		r.Post("/register", c.Register.Register)
		r.Post("/login", c.Login.Login)
		r.Get("/check-username", c.Availability.CheckUsername)
		r.Get("/check-email", c.Availability.CheckEmail)
		r.Post("/forgot-password", c.PasswordReset.ForgotPassword)
		r.Post("/reset-password", c.PasswordReset.ResetPassword)

		r.With(requireAccount).Post("/logout", c.Logout.Logout)

		if d.Social != nil {
			r.Get("/google/login", d.Social.Start)
			r.Get("/google/callback", d.Social.Callback)
		}
	})
}
