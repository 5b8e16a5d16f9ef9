package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
)

func registerProfileRoutes(api chi.Router, d Deps, requireAccount mw.Middleware) {
	api.Route("/profile", func(r chi.Router) {
		r.Use(requireAccount)
		r.Get("/", d.Profile.Get)
		r.Patch("/", d.Profile.Update)
	})
}
