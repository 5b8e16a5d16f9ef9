// Package router arma el chi.Router de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/health"
	ledgerctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/ledger"
	profilectrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/profile"
	socialctrl "github.com/dropDatabas3/michelangelo/internal/http/controllers/social"
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
)

// Deps contiene todo lo que necesita el router.
type Deps struct {
	Auth    *authctrl.Controllers
	Social  *socialctrl.SocialController
	Profile *profilectrl.ProfileController
	Ledger  *ledgerctrl.LedgerController
	Health  *healthctrl.HealthController

	// Resolver alimenta RequireAccount en las rutas protegidas.
	Resolver mw.AccountResolver

	CORSAllowedOrigins []string
	// Metrics sirve /metrics; nil = sin endpoint.
	Metrics http.Handler
}

// New registra todas las rutas. Recover y request id se agregan afuera
// (server.BuildHandler) para cubrir también 404/405.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)

	r.Route("/api", func(api chi.Router) {
		api.Use(
			mw.WithCORS(d.CORSAllowedOrigins),
			mw.WithMetrics(),
			mw.WithLogging(),
		)
		requireAccount := mw.RequireAccount(d.Resolver)

		registerAuthRoutes(api, d, requireAccount)
		registerProfileRoutes(api, d, requireAccount)
		registerLedgerRoutes(api, d, requireAccount)
	})
	return r
}
