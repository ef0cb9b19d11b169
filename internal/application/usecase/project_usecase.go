package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/access"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/lifecycle"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// ProjectUseCase aplica reglas de negocio para proyectos (propietario o misma empresa para todo).
type ProjectUseCase struct {
	repo    repository.ProjectRepository
	clients repository.ClientRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository, clients repository.ClientRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, clients: clients}
}

// Create crea un proyecto para un cliente visible. El nombre no puede repetirse dentro del
// alcance del llamante (archivados incluidos).
func (uc *ProjectUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.ID("client_id", in.ClientID); err != nil {
		return nil, err
	}
	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if err := checkReference(id, client); err != nil {
		return nil, err
	}
	existing, err := uc.repo.FindByNameInScope(ctx, in.Name, scopeOf(id))
	if err != nil {
		return nil, fmt.Errorf("project: buscar nombre: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		OwnerUserID: id.UserID,
		CompanyCIF:  id.CompanyCIF,
		ClientID:    client.ID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		PostalCode:  in.PostalCode,
		City:        in.City,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return entityToProjectResponse(project, client), nil
}

// List proyectos activos en el alcance, con el resumen de su cliente.
func (uc *ProjectUseCase) List(ctx context.Context, id access.Identity) ([]dto.ProjectResponse, error) {
	return uc.list(ctx, id, false)
}

// ListArchived proyectos archivados en el alcance.
func (uc *ProjectUseCase) ListArchived(ctx context.Context, id access.Identity) ([]dto.ProjectResponse, error) {
	return uc.list(ctx, id, true)
}

func (uc *ProjectUseCase) list(ctx context.Context, id access.Identity, archived bool) ([]dto.ProjectResponse, error) {
	list, err := uc.repo.ListByScope(ctx, scopeOf(id), archived)
	if err != nil {
		return nil, err
	}
	clients := make(map[string]*entity.Client)
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		client, ok := clients[p.ClientID]
		if !ok {
			if client, err = uc.clients.GetByID(ctx, p.ClientID); err != nil {
				return nil, err
			}
			clients[p.ClientID] = client
		}
		items = append(items, *entityToProjectResponse(p, client))
	}
	return items, nil
}

// Get obtiene un proyecto activo con el resumen de su cliente.
func (uc *ProjectUseCase) Get(ctx context.Context, id access.Identity, projectID string) (*dto.ProjectResponse, error) {
	project, err := uc.load(ctx, id, projectID, access.Read)
	if err != nil {
		return nil, err
	}
	if !lifecycle.VisibleByDefault(project) {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clients.GetByID(ctx, project.ClientID)
	if err != nil {
		return nil, err
	}
	return entityToProjectResponse(project, client), nil
}

// Update modifica los campos presentes. La unicidad del nombre solo se comprueba al crear.
func (uc *ProjectUseCase) Update(ctx context.Context, id access.Identity, projectID string, in dto.UpdateProjectRequest) (*dto.ProjectMutationResponse, error) {
	if err := validation.ID("id", projectID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	project, err := uc.load(ctx, id, projectID, access.Write)
	if err != nil {
		return nil, err
	}
	if !lifecycle.VisibleByDefault(project) {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Address != nil {
		project.Address = *in.Address
	}
	if in.PostalCode != nil {
		project.PostalCode = *in.PostalCode
	}
	if in.City != nil {
		project.City = *in.City
	}
	project.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return &dto.ProjectMutationResponse{Message: "Proyecto actualizado", Project: entityToProjectResponse(project, nil)}, nil
}

// Delete archiva (soft) o borra definitivamente (hard). No borra albaranes en cascada.
func (uc *ProjectUseCase) Delete(ctx context.Context, id access.Identity, projectID string, soft bool) (*dto.ProjectMutationResponse, error) {
	project, err := uc.load(ctx, id, projectID, access.Delete)
	if err != nil {
		return nil, err
	}
	if !soft {
		if err := uc.repo.Delete(ctx, project.ID); err != nil {
			return nil, err
		}
		return &dto.ProjectMutationResponse{Message: "Proyecto eliminado definitivamente"}, nil
	}
	if err := lifecycle.Archive(project); err != nil {
		return nil, err
	}
	project.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return &dto.ProjectMutationResponse{Message: "Proyecto archivado", Project: entityToProjectResponse(project, nil)}, nil
}

// Restore devuelve un proyecto archivado a activo.
func (uc *ProjectUseCase) Restore(ctx context.Context, id access.Identity, projectID string) (*dto.ProjectMutationResponse, error) {
	project, err := uc.load(ctx, id, projectID, access.Write)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Restore(project); err != nil {
		return nil, err
	}
	project.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return &dto.ProjectMutationResponse{Message: "Proyecto restaurado", Project: entityToProjectResponse(project, nil)}, nil
}

func (uc *ProjectUseCase) load(ctx context.Context, id access.Identity, projectID string, op access.Operation) (*entity.Project, error) {
	if err := validation.ID("id", projectID); err != nil {
		return nil, err
	}
	project, err := uc.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.ScopePolicy.Authorize(id, project, op); err != nil {
		return nil, err
	}
	return project, nil
}

// checkReference control de una referencia de creación (cliente de un proyecto, proyecto de un albarán).
// Archivada o fuera de alcance se reporta igual que inexistente: domain.ErrNotFound.
func checkReference(id access.Identity, ref interface {
	access.Owned
	lifecycle.Archivable
}) error {
	if !lifecycle.VisibleByDefault(ref) {
		return domain.ErrNotFound
	}
	return access.AuthorizeReference(id, ref)
}

func entityToProjectResponse(p *entity.Project, client *entity.Client) *dto.ProjectResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProjectResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		CompanyCIF:  nullable(p.CompanyCIF),
		ClientID:    p.ClientID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		PostalCode:  p.PostalCode,
		City:        p.City,
		Archived:    p.Archived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if client != nil {
		out.Client = &dto.ClientSummary{ID: client.ID, Name: client.Name, CIF: client.CIF}
	}
	return out
}
