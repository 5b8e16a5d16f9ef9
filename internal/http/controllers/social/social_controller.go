// Package social contiene el controller del login federado.
package social

import (
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/social"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// SocialController: el callback siempre termina en redirect al frontend,
// con token o con ?error=federation_failed.
type SocialController struct {
	service     svc.Service
	frontendURL string
}

func NewSocialController(service svc.Service, frontendURL string) *SocialController {
	return &SocialController{service: service, frontendURL: strings.TrimRight(frontendURL, "/")}
}

// Start maneja GET /api/auth/google/login
func (c *SocialController) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("SocialController.Start"))

	target, err := c.service.Start(r.Context())
	if err != nil {
		if errors.Is(err, svc.ErrProviderDisabled) {
			httperrors.WriteError(w, httperrors.ErrNotImplemented.WithDetail("federated login is not configured"))
			return
		}
		log.Error("federated start failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.NoStore(w)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// Callback maneja GET /api/auth/google/callback?code=&state=
func (c *SocialController) Callback(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("SocialController.Callback"))
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		// el usuario canceló en el consentimiento
		log.Info("provider returned error", logger.String("error", e))
		c.fail(w, r)
		return
	}

	target, err := c.service.Callback(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrProviderDisabled):
			httperrors.WriteError(w, httperrors.ErrNotImplemented.WithDetail("federated login is not configured"))
			return
		case errors.Is(err, svc.ErrFederation):
			log.Warn("federated login failed", logger.Err(err))
		default:
			log.Error("federated login error", logger.Err(err))
		}
		c.fail(w, r)
		return
	}
	helpers.NoStore(w)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (c *SocialController) fail(w http.ResponseWriter, r *http.Request) {
	helpers.NoStore(w)
	http.Redirect(w, r, c.frontendURL+"/login_page?error=federation_failed", http.StatusTemporaryRedirect)
}
