package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// HeaderDebugResetLink expone el link de reset cuando email.debug_echo_links está activo.
const HeaderDebugResetLink = "X-Debug-Reset-Link"

type PasswordResetController struct {
	service svc.PasswordResetService
}

func NewPasswordResetController(service svc.PasswordResetService) *PasswordResetController {
	return &PasswordResetController{service: service}
}

// ForgotPassword maneja POST /api/auth/forgot-password
func (c *PasswordResetController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PasswordResetController.ForgotPassword"))

	var req dto.ForgotPasswordRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.service.ForgotPassword(ctx, req.Email)
	if err != nil {
		writeAuthError(w, log, err)
		return
	}
	if res.DebugLink != "" {
		w.Header().Set(HeaderDebugResetLink, res.DebugLink)
	}
	helpers.WriteJSON(w, http.StatusAccepted, dto.StatusResponse{Status: "sent"})
}

// ResetPassword maneja POST /api/auth/reset-password
func (c *PasswordResetController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PasswordResetController.ResetPassword"))

	var req dto.ResetPasswordRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.service.ResetPassword(ctx, req); err != nil {
		writeAuthError(w, log, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: "password_updated"})
}
