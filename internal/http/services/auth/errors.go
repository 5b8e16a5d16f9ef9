package auth

import (
	"errors"

	"github.com/dropDatabas3/michelangelo/internal/domain/repository"
	"github.com/dropDatabas3/michelangelo/internal/validation"
)

// ErrPasswordTooLong sólo se devuelve en registro; el reset trunca.
var ErrPasswordTooLong = validation.New("password", validation.CodePasswordTooLong,
	"must be at most 72 bytes")

var (
	ErrEmailInUse    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	ErrIdentifierNotFound = errors.New("identifier not found")
	ErrWrongPassword      = errors.New("wrong password")
	// ErrInvalidCredentials reemplaza a los dos anteriores con unify_login_errors.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUnauthorized    = errors.New("unauthorized")
	ErrAccountNotFound = errors.New("account not found")

	ErrInvalidEmail          = errors.New("no account with that email")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrEmailTransport        = errors.New("email transport failed")

	ErrRevocationDisabled = errors.New("token revocation disabled")
)

// conflictErr traduce una violación de unicidad del store al mismo error que
// el pre-chequeo, así el perdedor de una carrera ve lo mismo.
func conflictErr(err error) error {
	switch repository.ConflictField(err) {
	case repository.FieldEmail:
		return ErrEmailInUse
	case repository.FieldUsername:
		return ErrUsernameTaken
	}
	return err
}
