package router

import "github.com/go-chi/chi/v5"

// Sin logging: los probes son muy frecuentes.
func registerHealthRoutes(r chi.Router, d Deps) {
	if d.Health != nil {
		r.Get("/healthz", d.Health.Healthz)
		r.Get("/readyz", d.Health.Readyz)
	}
	if d.Metrics != nil {
		r.Method("GET", "/metrics", d.Metrics)
	}
}
