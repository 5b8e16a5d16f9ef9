// Package health contiene el service para health checks.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/health"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

const checkTimeout = 2 * time.Second

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	DBCheck    func(ctx context.Context) error // requerido
	CacheCheck func(ctx context.Context) error // nil = "disabled"
	Version    string
}

type healthService struct {
	deps Deps
}

func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

// Check: la base caída da "unavailable"; la cache caída sólo "degraded".
func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	resp := dto.HealthResponse{
		Status:     "ready",
		Components: make(map[string]dto.HealthStatus),
		Version:    s.deps.Version,
		Timestamp:  time.Now().UTC(),
	}

	if err := probe(ctx, s.deps.DBCheck); err != nil {
		log.Warn("db check failed", logger.Err(err))
		resp.Components["db"] = dto.HealthStatus{Status: "error", Message: err.Error()}
		resp.Status = "unavailable"
	} else {
		resp.Components["db"] = dto.HealthStatus{Status: "ok"}
	}

	switch {
	case s.deps.CacheCheck == nil:
		resp.Components["cache"] = dto.HealthStatus{Status: "disabled"}
	default:
		if err := probe(ctx, s.deps.CacheCheck); err != nil {
			log.Warn("cache check failed", logger.Err(err))
			resp.Components["cache"] = dto.HealthStatus{Status: "error", Message: err.Error()}
			if resp.Status == "ready" {
				resp.Status = "degraded"
			}
		} else {
			resp.Components["cache"] = dto.HealthStatus{Status: "ok"}
		}
	}
	return resp
}

func probe(ctx context.Context, check func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return check(ctx)
}
