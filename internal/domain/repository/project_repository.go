package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para Project.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	// FindByNameInScope busca un proyecto con ese nombre dentro del alcance (archivados incluidos).
	FindByNameInScope(ctx context.Context, name string, scope Scope) (*entity.Project, error)
	ListByScope(ctx context.Context, scope Scope, archived bool) ([]*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id string) error
}
