package dto

import "time"

// CreateProjectRequest body para POST /api/project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	ClientID    string `json:"client_id" validate:"required"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
}

// UpdateProjectRequest body para PATCH /api/project/:id. El cliente no se puede cambiar.
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	PostalCode  *string `json:"postal_code"`
	City        *string `json:"city"`
}

// ProjectResponse proyecto en respuestas.
type ProjectResponse struct {
	ID          string         `json:"id"`
	OwnerUserID string         `json:"owner_user_id"`
	CompanyCIF  *string        `json:"company_cif"`
	ClientID    string         `json:"client_id"`
	Client      *ClientSummary `json:"client,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Address     string         `json:"address,omitempty"`
	PostalCode  string         `json:"postal_code,omitempty"`
	City        string         `json:"city,omitempty"`
	Archived    bool           `json:"archived"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProjectMutationResponse respuesta de update, archivado y restauración.
type ProjectMutationResponse struct {
	Message string           `json:"message"`
	Project *ProjectResponse `json:"project,omitempty"`
}
