package auth

import (
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.LoginService
}

func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /api/auth/login. Acepta JSON {identifier, password} o
// form-urlencoded con username/password (clientes OAuth2 password grant).
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	ct := strings.ToLower(r.Header.Get("Content-Type"))

	switch {
	case strings.Contains(ct, "application/x-www-form-urlencoded"):
		r.Body = http.MaxBytesReader(w, r.Body, helpers.MaxBodySize)
		if err := r.ParseForm(); err != nil {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid form"))
			return
		}
		req.Identifier = r.PostFormValue("username")
		if req.Identifier == "" {
			req.Identifier = r.PostFormValue("identifier")
		}
		req.Password = r.PostFormValue("password")

	default:
		if err := helpers.ReadJSON(w, r, &req); err != nil {
			httperrors.WriteError(w, err)
			return
		}
	}

	res, err := c.service.Login(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeAuthError(w, log, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   res.ExpiresIn,
	})
}
