// Package profile contiene el controller del perfil de la cuenta autenticada.
package profile

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/profile"
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/profile"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

type ProfileController struct {
	service svc.Service
}

func NewProfileController(service svc.Service) *ProfileController {
	return &ProfileController{service: service}
}

// Get maneja GET /api/profile
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	acc, ok := mw.GetAccount(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	out, err := c.service.Get(r.Context(), acc)
	if err != nil {
		writeProfileError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromAccount(out))
}

// Update maneja PATCH /api/profile
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	acc, ok := mw.GetAccount(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateProfileRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	out, err := c.service.Update(ctx, acc, req.Patch())
	if err != nil {
		writeProfileError(w, r, err)
		return
	}
	resp := dto.UpdateProfileResponse{ProfileResponse: dto.FromAccount(out.Account)}
	if out.AccessToken != "" {
		resp.AccessToken = out.AccessToken
		resp.TokenType = "Bearer"
		resp.ExpiresIn = out.ExpiresIn
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func writeProfileError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := helpers.AsValidation(err); ok {
		httperrors.WriteError(w, appErr)
		return
	}
	switch {
	case errors.Is(err, svc.ErrEmailInUse):
		httperrors.WriteError(w, httperrors.ErrEmailInUse)
	case errors.Is(err, svc.ErrUsernameTaken):
		httperrors.WriteError(w, httperrors.ErrUsernameTaken)
	case errors.Is(err, svc.ErrAccountNotFound):
		httperrors.WriteError(w, httperrors.ErrAccountNotFound)
	default:
		logger.From(r.Context()).Error("profile error",
			logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
