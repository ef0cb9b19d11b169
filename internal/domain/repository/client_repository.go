package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// GetByID y GetByCIF devuelven (nil, nil) si no existe.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByCIF(ctx context.Context, cif string) (*entity.Client, error)
	ListByScope(ctx context.Context, scope Scope, archived bool) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
