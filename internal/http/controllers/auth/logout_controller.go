package auth

import (
	"net/http"

	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

type LogoutController struct {
	service svc.LogoutService
}

func NewLogoutController(service svc.LogoutService) *LogoutController {
	return &LogoutController{service: service}
}

// Logout maneja POST /api/auth/logout (requiere RequireAccount).
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	claims, ok := mw.GetClaims(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	if err := c.service.Logout(ctx, claims); err != nil {
		writeAuthError(w, log, err)
		return
	}
	helpers.NoStore(w)
	w.WriteHeader(http.StatusNoContent)
}
