package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByNIF(ctx context.Context, nif string) (*entity.User, error)
	GetByCompanyCIF(ctx context.Context, cif string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SoftDelete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
