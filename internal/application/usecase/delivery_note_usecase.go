package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/access"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/lifecycle"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// DeliveryNoteUseCase casos de uso de albaranes: alta, consulta, edición, firma, PDF y borrado.
type DeliveryNoteUseCase struct {
	repo     repository.DeliveryNoteRepository
	clients  repository.ClientRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	uploader ports.FileUploader
	renderer ports.DeliveryNoteRenderer
}

// NewDeliveryNoteUseCase construye el caso de uso.
func NewDeliveryNoteUseCase(
	repo repository.DeliveryNoteRepository,
	clients repository.ClientRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	uploader ports.FileUploader,
	renderer ports.DeliveryNoteRenderer,
) *DeliveryNoteUseCase {
	return &DeliveryNoteUseCase{
		repo:     repo,
		clients:  clients,
		projects: projects,
		users:    users,
		uploader: uploader,
		renderer: renderer,
	}
}

// Create crea un albarán sin firmar. Cliente y proyecto deben existir, estar activos, ser visibles
// para el llamante y el proyecto debe pertenecer al cliente; si no, domain.ErrNotFound.
// Sin total_cost, el total se calcula a partir de las líneas.
func (uc *DeliveryNoteUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateDeliveryNoteRequest) (*dto.DeliveryNoteResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.IDs("client_id", in.ClientID, "project_id", in.ProjectID); err != nil {
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
	project, err := uc.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.ClientID != client.ID {
		return nil, domain.ErrNotFound
	}
	if err := checkReference(id, project); err != nil {
		return nil, err
	}

	now := time.Now()
	note := &entity.DeliveryNote{
		ID:          uuid.New().String(),
		OwnerUserID: id.UserID,
		CompanyCIF:  id.CompanyCIF,
		ClientID:    client.ID,
		ProjectID:   project.ID,
		Description: in.Description,
		Materials:   toMaterials(in.Materials),
		Labor:       toLabor(in.Labor),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.TotalCost != nil {
		note.TotalCost = in.TotalCost.Round(entity.MoneyScale)
	} else {
		note.TotalCost = note.ComputeTotal()
	}
	if err := uc.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return entityToDeliveryNoteResponse(note), nil
}

// List albaranes en el alcance del llamante.
func (uc *DeliveryNoteUseCase) List(ctx context.Context, id access.Identity) ([]dto.DeliveryNoteResponse, error) {
	list, err := uc.repo.ListByScope(ctx, scopeOf(id))
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryNoteResponse, 0, len(list))
	for _, n := range list {
		items = append(items, *entityToDeliveryNoteResponse(n))
	}
	return items, nil
}

// Get obtiene un albarán.
func (uc *DeliveryNoteUseCase) Get(ctx context.Context, id access.Identity, noteID string) (*dto.DeliveryNoteResponse, error) {
	note, err := uc.load(ctx, id, noteID, access.Read)
	if err != nil {
		return nil, err
	}
	return entityToDeliveryNoteResponse(note), nil
}

// Update modifica descripción, líneas o total mientras el albarán no esté firmado.
// Si cambian las líneas y no viene total_cost, el total se recalcula.
func (uc *DeliveryNoteUseCase) Update(ctx context.Context, id access.Identity, noteID string, in dto.UpdateDeliveryNoteRequest) (*dto.DeliveryNoteResponse, error) {
	if err := validation.ID("id", noteID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	note, err := uc.load(ctx, id, noteID, access.Write)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.EnsureMutable(note); err != nil {
		return nil, err
	}
	if in.Description != nil {
		note.Description = *in.Description
	}
	linesChanged := false
	if in.Materials != nil {
		note.Materials = toMaterials(in.Materials)
		linesChanged = true
	}
	if in.Labor != nil {
		note.Labor = toLabor(in.Labor)
		linesChanged = true
	}
	switch {
	case in.TotalCost != nil:
		note.TotalCost = in.TotalCost.Round(entity.MoneyScale)
	case linesChanged:
		note.TotalCost = note.ComputeTotal()
	}
	note.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return entityToDeliveryNoteResponse(note), nil
}

// Sign sube la imagen de la firma y marca el albarán como firmado. La firma es irreversible:
// un segundo intento devuelve domain.ErrAlreadySigned. Si la subida falla el albarán no cambia.
func (uc *DeliveryNoteUseCase) Sign(ctx context.Context, id access.Identity, noteID string, data []byte, filename, contentType string) (*dto.SignatureResponse, error) {
	if err := validation.ID("id", noteID); err != nil {
		return nil, err
	}
	if err := validation.Image("signature", int64(len(data)), contentType); err != nil {
		return nil, err
	}
	note, err := uc.load(ctx, id, noteID, access.Write)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.EnsureSignable(note); err != nil {
		return nil, err
	}
	url, err := uc.uploader.Upload(ctx, data, "signature_"+note.ID+filepath.Ext(filename), contentType)
	if err != nil {
		return nil, fmt.Errorf("deliverynote: subir firma: %w", err)
	}
	if err := uc.repo.MarkSigned(ctx, note.ID, url); err != nil {
		return nil, err
	}
	return &dto.SignatureResponse{Message: "Albarán firmado correctamente", SignatureURL: url}, nil
}

// PDF genera el documento del albarán con los datos del usuario creador, el cliente y el proyecto.
func (uc *DeliveryNoteUseCase) PDF(ctx context.Context, id access.Identity, noteID string) ([]byte, error) {
	note, err := uc.load(ctx, id, noteID, access.Read)
	if err != nil {
		return nil, err
	}
	doc := ports.DeliveryNoteDocument{Note: note}
	if doc.User, err = uc.users.GetByID(ctx, note.OwnerUserID); err != nil {
		return nil, err
	}
	if doc.Client, err = uc.clients.GetByID(ctx, note.ClientID); err != nil {
		return nil, err
	}
	if doc.Project, err = uc.projects.GetByID(ctx, note.ProjectID); err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.RenderDeliveryNote(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("deliverynote: generar pdf: %w", err)
	}
	return pdf, nil
}

// Delete borra el albarán si no está firmado.
func (uc *DeliveryNoteUseCase) Delete(ctx context.Context, id access.Identity, noteID string) (*dto.MessageResponse, error) {
	note, err := uc.load(ctx, id, noteID, access.Delete)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.EnsureMutable(note); err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, note.ID); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Albarán eliminado"}, nil
}

func (uc *DeliveryNoteUseCase) load(ctx context.Context, id access.Identity, noteID string, op access.Operation) (*entity.DeliveryNote, error) {
	if err := validation.ID("id", noteID); err != nil {
		return nil, err
	}
	note, err := uc.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.Archived {
		return nil, domain.ErrNotFound
	}
	if err := access.ScopePolicy.Authorize(id, note, op); err != nil {
		return nil, err
	}
	return note, nil
}

func toMaterials(in []dto.MaterialDTO) []entity.Material {
	out := make([]entity.Material, 0, len(in))
	for _, m := range in {
		out = append(out, entity.Material{
			Description: m.Description,
			Quantity:    m.Quantity.Round(entity.QuantityScale),
			Unit:        m.Unit,
			UnitPrice:   m.UnitPrice.Round(entity.MoneyScale),
		})
	}
	return out
}

func toLabor(in []dto.LaborDTO) []entity.Labor {
	out := make([]entity.Labor, 0, len(in))
	for _, l := range in {
		out = append(out, entity.Labor{
			Worker:     l.Worker,
			Hours:      l.Hours.Round(entity.HoursScale),
			HourlyRate: l.HourlyRate.Round(entity.MoneyScale),
		})
	}
	return out
}

func entityToDeliveryNoteResponse(n *entity.DeliveryNote) *dto.DeliveryNoteResponse {
	if n == nil {
		return nil
	}
	out := &dto.DeliveryNoteResponse{
		ID:           n.ID,
		OwnerUserID:  n.OwnerUserID,
		CompanyCIF:   nullable(n.CompanyCIF),
		ClientID:     n.ClientID,
		ProjectID:    n.ProjectID,
		Description:  n.Description,
		Materials:    make([]dto.MaterialDTO, 0, len(n.Materials)),
		Labor:        make([]dto.LaborDTO, 0, len(n.Labor)),
		TotalCost:    n.TotalCost,
		Signed:       n.Signed,
		SignatureURL: nullable(n.SignatureURL),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
	for _, m := range n.Materials {
		out.Materials = append(out.Materials, dto.MaterialDTO{Description: m.Description, Quantity: m.Quantity, Unit: m.Unit, UnitPrice: m.UnitPrice})
	}
	for _, l := range n.Labor {
		out.Labor = append(out.Labor, dto.LaborDTO{Worker: l.Worker, Hours: l.Hours, HourlyRate: l.HourlyRate})
	}
	return out
}
