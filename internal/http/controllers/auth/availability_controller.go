package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// AvailabilityController responde check-username y check-email.
type AvailabilityController struct {
	service svc.AvailabilityService
}

func NewAvailabilityController(service svc.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{service: service}
}

// CheckUsername maneja GET /api/auth/check-username?username=
func (c *AvailabilityController) CheckUsername(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("AvailabilityController.CheckUsername"))

	exists, err := c.service.UsernameExists(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeAuthError(w, log, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// CheckEmail maneja GET /api/auth/check-email?email=
func (c *AvailabilityController) CheckEmail(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("AvailabilityController.CheckEmail"))

	exists, err := c.service.EmailExists(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeAuthError(w, log, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ExistsResponse{Exists: exists})
}
