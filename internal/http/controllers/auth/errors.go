package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/auth"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// writeAuthError mapea los errores de los services de auth a la API.
func writeAuthError(w http.ResponseWriter, log *zap.Logger, err error) {
	if appErr, ok := helpers.AsValidation(err); ok {
		httperrors.WriteError(w, appErr)
		return
	}

	switch {
	case errors.Is(err, svc.ErrEmailInUse):
		httperrors.WriteError(w, httperrors.ErrEmailInUse)
	case errors.Is(err, svc.ErrUsernameTaken):
		httperrors.WriteError(w, httperrors.ErrUsernameTaken)

	case errors.Is(err, svc.ErrIdentifierNotFound):
		httperrors.WriteError(w, httperrors.ErrIdentifierNotFound)
	case errors.Is(err, svc.ErrWrongPassword):
		httperrors.WriteError(w, httperrors.ErrWrongPassword)
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrInvalidEmail)
	case errors.Is(err, svc.ErrInvalidOrExpiredToken):
		httperrors.WriteError(w, httperrors.ErrInvalidOrExpiredToken)
	case errors.Is(err, svc.ErrAccountNotFound):
		httperrors.WriteError(w, httperrors.ErrAccountNotFound)
	case errors.Is(err, svc.ErrEmailTransport):
		httperrors.WriteError(w, httperrors.ErrEmailTransport)

	case errors.Is(err, svc.ErrRevocationDisabled):
		httperrors.WriteError(w, httperrors.ErrNotImplemented.WithDetail("token revocation is disabled"))

	default:
		log.Error("unexpected error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
