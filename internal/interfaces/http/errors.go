package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// errInvalidBody cuerpo JSON que no se puede decodificar.
var errInvalidBody = domain.NewValidationError("cuerpo inválido")

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable orden de evaluación de errors.Is; el primero que coincide gana.
var errorTable = []errorMapping{
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrVerificationMismatch, fiber.StatusUnauthorized, "VERIFICATION_MISMATCH"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrVerificationExhausted, fiber.StatusForbidden, "VERIFICATION_EXHAUSTED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrAlreadySigned, fiber.StatusBadRequest, "ALREADY_SIGNED"},
	{domain.ErrSignedRecordImmutable, fiber.StatusBadRequest, "SIGNED_IMMUTABLE"},
	{domain.ErrAlreadyVerified, fiber.StatusBadRequest, "ALREADY_VERIFIED"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// NewErrorHandler traduce los errores de los handlers al sobre {error, code, message}.
// Los 5xx se registran y se avisan por el notificador; el detalle interno no se devuelve.
func NewErrorHandler(log *logger.Logger, notifier ports.Notifier) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("error interno")
			if notifier != nil {
				notifier.Notify(fmt.Sprintf("%s %s - Código %d: %v", c.Method(), c.OriginalURL(), status, err))
			}
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, dto.ErrorResponse{Error: true, Code: "VALIDATION", Message: verr.Messages}
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Error: true, Code: m.code, Message: m.target.Error()}
		}
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code, dto.ErrorResponse{Error: true, Code: codeForStatus(ferr.Code), Message: ferr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Error: true, Code: "INTERNAL", Message: "error interno del servidor"}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
