package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict es el sentinel que envuelve todo *ConflictError.
	ErrConflict = errors.New("conflict")
)

// Campos con restricción de unicidad.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
)

// ConflictError indica una violación de unicidad detectada por el store.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s already exists", e.Field)
}

// Is permite errors.Is(err, ErrConflict).
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// ConflictField devuelve el campo en conflicto, o "" si err no es un conflicto.
func ConflictField(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}
