// Package auth contiene los controllers de registro, login, disponibilidad,
// reset de password y logout.
package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// RegisterController maneja el alta de cuentas.
type RegisterController struct {
	service svc.RegisterService
}

func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register maneja POST /api/auth/register
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.service.Register(ctx, req)
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		writeAuthError(w, log, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   res.ExpiresIn,
		PublicID:    res.PublicID,
	})
}
