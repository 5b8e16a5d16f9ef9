package helpers

import (
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

// AsValidation traduce un *validation.Error a 400. PASSWORD_TOO_LONG
// conserva su propio código.
func AsValidation(err error) (*httperrors.AppError, bool) {
	ve, ok := validation.As(err)
	if !ok {
		return nil, false
	}
	if ve.Code == validation.CodePasswordTooLong {
		return httperrors.ErrPasswordTooLong.WithDetail(ve.Error()), true
	}
	return httperrors.ErrValidation.WithDetail(ve.Error()), true
}
