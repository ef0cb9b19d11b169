// Package identity resuelve quién hace la petición a partir del token bearer.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/access"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// Resolver convierte una credencial en Identity + User.
type Resolver struct {
	verifier ports.TokenVerifier
	users    repository.UserRepository
}

// NewResolver construye el resolver.
func NewResolver(verifier ports.TokenVerifier, users repository.UserRepository) *Resolver {
	return &Resolver{verifier: verifier, users: users}
}

// Resolve valida el token y carga el usuario. Falla con domain.ErrUnauthenticated si el token
// falta, está mal formado o expirado, o si el usuario ya no existe (borrado físico o lógico).
// El CIF de empresa se toma del usuario persistido, no del token.
func (r *Resolver) Resolve(ctx context.Context, credential string) (access.Identity, *entity.User, error) {
	token := strings.TrimSpace(credential)
	if token == "" {
		return access.Identity{}, nil, domain.ErrUnauthenticated
	}
	userID, err := r.verifier.Verify(token)
	if err != nil || userID == "" {
		return access.Identity{}, nil, domain.ErrUnauthenticated
	}
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return access.Identity{}, nil, fmt.Errorf("identity: cargar usuario: %w", err)
	}
	if user == nil || user.Deleted {
		return access.Identity{}, nil, domain.ErrUnauthenticated
	}
	return access.Identity{UserID: user.ID, CompanyCIF: user.CompanyCIF()}, user, nil
}

// BearerToken extrae el token de una cabecera "Authorization: Bearer <token>".
// Devuelve "" si la cabecera no tiene ese formato.
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
