package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrUnauthorized       = errors.New("credenciales incorrectas")
	ErrForbidden          = errors.New("acceso denegado")

	// Ciclo de vida del albarán: la firma es irreversible.
	ErrAlreadySigned         = errors.New("el albarán ya está firmado")
	ErrSignedRecordImmutable = errors.New("no se puede modificar ni borrar un albarán firmado")

	// Verificación de email.
	ErrAlreadyVerified       = errors.New("el email ya ha sido validado")
	ErrVerificationExhausted = errors.New("número máximo de intentos alcanzado")
	ErrVerificationMismatch  = errors.New("código incorrecto")
)

// ValidationError agrupa los mensajes de validación de un registro.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier *ValidationError.
type ValidationError struct {
	Messages []string
}

// NewValidationError construye el error con uno o más mensajes.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Messages, "; ")
}

// Is permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
