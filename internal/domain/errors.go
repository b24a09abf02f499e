package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrEmptyOrder   = errors.New("el pedido debe tener al menos un ítem")
)

// TransportError el almacén remoto no respondió o devolvió algo ilegible.
// En lectura dispara la política de fallback; en escritura siempre se propaga.
type TransportError struct {
	Op    string
	Table string
	Err   error
}

func (e *TransportError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("remoto %s %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("remoto %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConstraintError el backend rechazó la escritura por una regla del esquema
// (check, unique, foreign key). Message se muestra tal cual al usuario.
type ConstraintError struct {
	Table      string
	Constraint string
	Message    string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("restricción %s en %s: %s", e.Constraint, e.Table, e.Message)
	}
	return fmt.Sprintf("restricción en %s: %s", e.Table, e.Message)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// ValidationError datos del llamador incompletos; se detecta antes de tocar cualquier almacén.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Message
	}
	return fmt.Sprintf("validación %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// PartialWriteError la cabecera del pedido se creó pero el lote de ítems falló.
// La cabecera huérfana queda en el remoto (sin limpieza automática).
type PartialWriteError struct {
	OrderID string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("pedido %s creado sin ítems: %v", e.OrderID, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// DeserializationError el contenido cacheado no se pudo leer. Nunca sale de la caché local.
type DeserializationError struct {
	Kind string
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("caché %s ilegible: %v", e.Kind, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsTransport indica si err (o algo que envuelve) es un TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsConstraint indica si err (o algo que envuelve) es un ConstraintError.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
