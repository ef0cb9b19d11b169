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

// ClientUseCase aplica reglas de negocio para clientes.
// Lectura: propietario o misma empresa. Cambios, archivado, restauración y borrado: solo propietario.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso con el puerto de persistencia.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente etiquetado con la empresa del llamante. Devuelve domain.ErrDuplicate si el CIF ya existe.
func (uc *ClientUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCIF(ctx, in.CIF)
	if err != nil {
		return nil, fmt.Errorf("client: buscar cif: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	client := &entity.Client{
		ID:          uuid.New().String(),
		OwnerUserID: id.UserID,
		CompanyCIF:  id.CompanyCIF,
		Name:        in.Name,
		CIF:         in.CIF,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return entityToClientResponse(client), nil
}

// List clientes activos en el alcance del llamante.
func (uc *ClientUseCase) List(ctx context.Context, id access.Identity) ([]dto.ClientResponse, error) {
	return uc.list(ctx, id, false)
}

// ListArchived clientes archivados en el alcance del llamante.
func (uc *ClientUseCase) ListArchived(ctx context.Context, id access.Identity) ([]dto.ClientResponse, error) {
	return uc.list(ctx, id, true)
}

func (uc *ClientUseCase) list(ctx context.Context, id access.Identity, archived bool) ([]dto.ClientResponse, error) {
	list, err := uc.repo.ListByScope(ctx, scopeOf(id), archived)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToClientResponse(c))
	}
	return items, nil
}

// Get obtiene un cliente activo. Archivado = no encontrado.
func (uc *ClientUseCase) Get(ctx context.Context, id access.Identity, clientID string) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, id, clientID, access.Read)
	if err != nil {
		return nil, err
	}
	if !lifecycle.VisibleByDefault(client) {
		return nil, domain.ErrNotFound
	}
	return entityToClientResponse(client), nil
}

// Update modifica los campos presentes en la petición. Un CIF nuevo no puede existir ya.
func (uc *ClientUseCase) Update(ctx context.Context, id access.Identity, clientID string, in dto.UpdateClientRequest) (*dto.ClientMutationResponse, error) {
	if err := validation.ID("id", clientID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	client, err := uc.load(ctx, id, clientID, access.Write)
	if err != nil {
		return nil, err
	}
	if !lifecycle.VisibleByDefault(client) {
		return nil, domain.ErrNotFound
	}
	if in.CIF != nil && *in.CIF != client.CIF {
		other, err := uc.repo.GetByCIF(ctx, *in.CIF)
		if err != nil {
			return nil, fmt.Errorf("client: buscar cif: %w", err)
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		client.CIF = *in.CIF
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return &dto.ClientMutationResponse{Message: "Cliente actualizado", Client: entityToClientResponse(client)}, nil
}

// Delete archiva (soft) o borra definitivamente (hard) el cliente.
func (uc *ClientUseCase) Delete(ctx context.Context, id access.Identity, clientID string, soft bool) (*dto.ClientMutationResponse, error) {
	client, err := uc.load(ctx, id, clientID, access.Delete)
	if err != nil {
		return nil, err
	}
	if !soft {
		if err := uc.repo.Delete(ctx, client.ID); err != nil {
			return nil, err
		}
		return &dto.ClientMutationResponse{Message: "Cliente eliminado definitivamente"}, nil
	}
	if err := lifecycle.Archive(client); err != nil {
		return nil, err
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return &dto.ClientMutationResponse{Message: "Cliente archivado", Client: entityToClientResponse(client)}, nil
}

// Restore devuelve un cliente archivado a activo.
func (uc *ClientUseCase) Restore(ctx context.Context, id access.Identity, clientID string) (*dto.ClientMutationResponse, error) {
	client, err := uc.load(ctx, id, clientID, access.Write)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Restore(client); err != nil {
		return nil, err
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return &dto.ClientMutationResponse{Message: "Cliente restaurado", Client: entityToClientResponse(client)}, nil
}

// load valida el id, carga el cliente y aplica la política de acceso.
func (uc *ClientUseCase) load(ctx context.Context, id access.Identity, clientID string, op access.Operation) (*entity.Client, error) {
	if err := validation.ID("id", clientID); err != nil {
		return nil, err
	}
	client, err := uc.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.ClientPolicy.Authorize(id, client, op); err != nil {
		return nil, err
	}
	return client, nil
}

func entityToClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:          c.ID,
		OwnerUserID: c.OwnerUserID,
		CompanyCIF:  nullable(c.CompanyCIF),
		Name:        c.Name,
		CIF:         c.CIF,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Archived:    c.Archived,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
