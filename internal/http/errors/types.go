package errors

import (
	"fmt"
	"net/http"
)

// AppError es la forma estándar de un error de la API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // causa original, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// FromError convierte cualquier error en AppError; lo desconocido es 500.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail devuelve una COPIA con detalle (no muta los predefinidos).
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

// 400
var (
	ErrBadRequest       = New(http.StatusBadRequest, "BAD_REQUEST", "The request is malformed or missing parameters.")
	ErrInvalidJSON      = New(http.StatusBadRequest, "INVALID_JSON", "The request body is not valid JSON.")
	ErrValidation       = New(http.StatusBadRequest, "VALIDATION_FAILED", "One or more fields are invalid.")
	ErrPasswordTooLong  = New(http.StatusBadRequest, "PASSWORD_TOO_LONG", "Password must be at most 72 bytes.")
	ErrInvalidParameter = New(http.StatusBadRequest, "INVALID_PARAMETER", "A query or path parameter is invalid.")
	ErrBodyTooLarge     = New(http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "The request body exceeds the allowed size.")
)

// 401
var (
	ErrUnauthorized          = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
	ErrTokenMissing          = New(http.StatusUnauthorized, "TOKEN_MISSING", "No bearer token was provided.")
	ErrTokenInvalid          = New(http.StatusUnauthorized, "TOKEN_INVALID", "Could not validate credentials.")
	ErrIdentifierNotFound    = New(http.StatusUnauthorized, "IDENTIFIER_NOT_FOUND", "Username or email not found.")
	ErrWrongPassword         = New(http.StatusUnauthorized, "WRONG_PASSWORD", "Incorrect password.")
	ErrInvalidCredentials    = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username/email or password.")
	ErrInvalidOrExpiredToken = New(http.StatusUnauthorized, "INVALID_OR_EXPIRED_TOKEN", "The reset token is invalid or has expired.")
)

// 404 / 405 / 409
var (
	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "The requested resource was not found.")
	ErrAccountNotFound  = New(http.StatusNotFound, "ACCOUNT_NOT_FOUND", "User not found.")
	ErrInvalidEmail     = New(http.StatusNotFound, "INVALID_EMAIL", "No account is registered with that email.")
	ErrEntryNotFound    = New(http.StatusNotFound, "ENTRY_NOT_FOUND", "Ledger entry not found.")
	ErrMethodNotAllowed = New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed.")
	ErrEmailInUse       = New(http.StatusConflict, "EMAIL_ALREADY_IN_USE", "Email already registered.")
	ErrUsernameTaken    = New(http.StatusConflict, "USERNAME_TAKEN", "Username already taken.")
)

// 5xx
var (
	ErrInternalServerError = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred.")
	ErrNotImplemented      = New(http.StatusNotImplemented, "NOT_IMPLEMENTED", "This feature is disabled on this server.")
	ErrFederationFailed    = New(http.StatusBadGateway, "FEDERATION_FAILED", "Could not complete login with the identity provider.")
	ErrEmailTransport      = New(http.StatusBadGateway, "EMAIL_TRANSPORT_FAILED", "The email could not be sent.")
	ErrServiceUnavailable  = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "The service is temporarily unavailable.")
)
