package dto

import "time"

// CreateClientRequest body para POST /api/client.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	CIF     string `json:"cif" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdateClientRequest body para PUT /api/client/:id. Campo ausente = sin cambios.
type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitnil,min=1"`
	CIF     *string `json:"cif" validate:"omitnil,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	CompanyCIF  *string   `json:"company_cif"`
	Name        string    `json:"name"`
	CIF         string    `json:"cif"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClientSummary datos mínimos del cliente embebidos en un proyecto.
type ClientSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CIF  string `json:"cif"`
}

// ClientMutationResponse respuesta de update, archivado y restauración.
type ClientMutationResponse struct {
	Message string          `json:"message"`
	Client  *ClientResponse `json:"client,omitempty"`
}
