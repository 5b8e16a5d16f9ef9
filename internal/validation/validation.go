// Package validation contiene las reglas de formato de entrada y el error
// que las reporta. Las reglas de negocio (unicidad, dueño) viven en services.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrValidation es el sentinel de todo *Error.
var ErrValidation = errors.New("validation failed")

// Error describe la primera regla violada.
type Error struct {
	Field  string
	Code   string // REQUIRED | INVALID_FORMAT | TOO_LONG | PASSWORD_TOO_LONG | ...
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *Error) Is(target error) bool { return target == ErrValidation }

func New(field, code, reason string) *Error {
	return &Error{Field: field, Code: code, Reason: reason}
}

// As extrae el *Error si err lo contiene.
func As(err error) (*Error, bool) {
	var ve *Error
	ok := errors.As(err, &ve)
	return ve, ok
}

const (
	CodeRequired      = "REQUIRED"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeTooLong       = "TOO_LONG"

	// CodePasswordTooLong: secreto de más de 72 bytes en el registro.
	CodePasswordTooLong = "PASSWORD_TOO_LONG"
)

const (
	MaxEmailLen    = 254
	MaxUsernameLen = 64
)

// Required falla si s está vacío tras TrimSpace.
func Required(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return New(field, CodeRequired, "is required")
	}
	return nil
}

// MaxRunes limita la longitud en caracteres.
func MaxRunes(field, s string, n int) error {
	if utf8.RuneCountInString(s) > n {
		return New(field, CodeTooLong, fmt.Sprintf("must be at most %d characters", n))
	}
	return nil
}

// Email: local@dominio, sin espacios. No intenta cubrir RFC 5322.
func Email(field, s string) error {
	if err := Required(field, s); err != nil {
		return err
	}
	if err := MaxRunes(field, s, MaxEmailLen); err != nil {
		return err
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return New(field, CodeInvalidFormat, "must be a valid email address")
	}
	return nil
}

// Username: sin "@" (el login lo usa para distinguir email) ni espacios.
func Username(field, s string) error {
	if err := Required(field, s); err != nil {
		return err
	}
	if err := MaxRunes(field, s, MaxUsernameLen); err != nil {
		return err
	}
	if strings.Contains(s, "@") || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return New(field, CodeInvalidFormat, "must not contain '@' or whitespace")
	}
	return nil
}

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency: código ISO 4217 en mayúsculas.
func Currency(field, s string) error {
	if !currencyRe.MatchString(s) {
		return New(field, CodeInvalidFormat, "must be a 3-letter ISO currency code")
	}
	return nil
}

// First devuelve el primer error no nil.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
