package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrRenderFailed    = errors.New("no se pudo capturar la representación visual")
	ErrAINotConfigured = errors.New("servicio de generación no configurado")
	ErrAIService       = errors.New("el servicio de generación externo falló")
)

// ValidationError envuelve ErrInvalidInput con el campo que falló, para que el
// handler pueda devolver el detalle textual al cliente sin perder el sentinel.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un error de validación con detalle de campo.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
