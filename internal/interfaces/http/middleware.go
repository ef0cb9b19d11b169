package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/identity"
	"github.com/jhoicas/albaranes-api/internal/domain/access"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// Locals keys para la identidad resuelta en Fiber.
const (
	LocalIdentity = "identity"
	LocalUser     = "user"
)

// AuthMiddleware resuelve el Bearer Token a una identidad y la guarda en c.Locals.
// Token ausente, inválido o de un usuario borrado → 401.
func AuthMiddleware(resolver *identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := identity.BearerToken(c.Get(fiber.HeaderAuthorization))
		id, user, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalIdentity, id)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del llamante (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) access.Identity {
	id, _ := c.Locals(LocalIdentity).(access.Identity)
	return id
}

// GetUser devuelve el usuario autenticado (después del middleware de auth).
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// El ErrorHandler aún no ha escrito la respuesta.
			if ferr, ok := err.(*fiber.Error); ok {
				status = ferr.Code
			} else {
				status, _ = mapError(err)
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
