package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
)

func registerLedgerRoutes(api chi.Router, d Deps, requireAccount mw.Middleware) {
	c := d.Ledger
	api.Route("/ledger", func(r chi.Router) {
		r.Use(requireAccount)
		r.Get("/summary", c.Summary)
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", c.Create)
			r.Get("/", c.List)
			r.Get("/{id}", c.Get)
			r.Patch("/{id}", c.Update)
			r.Delete("/{id}", c.Delete)
		})
	})
}
