package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// StateTransitionError indica que la operación no está permitida desde el estado actual.
// Nunca se ignora en silencio: el caller recibe el estado vigente y la operación intentada.
type StateTransitionError struct {
	Current   string // estado vigente de la licencia o condición
	Operation string // operación intentada
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("operación %q no permitida en estado %q", e.Operation, e.Current)
}

// NewStateTransitionError construye el error de transición.
func NewStateTransitionError(current, operation string) *StateTransitionError {
	return &StateTransitionError{Current: current, Operation: operation}
}

// ValidationError regla de negocio incumplida por la entrada (motivo vacío, evidencia vacía, fechas…).
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación fallida en %q: %s", e.Field, e.Rule)
}

// NewValidationError construye el error de validación.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule}
}

// IsStateTransition informa si err (o algún error envuelto) es un StateTransitionError.
func IsStateTransition(err error) bool {
	var e *StateTransitionError
	return errors.As(err, &e)
}

// IsValidation informa si err (o algún error envuelto) es un ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
