package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDeliveryNoteRequest body para POST /api/deliverynote.
// Si TotalCost no viene, se calcula a partir de las líneas.
type CreateDeliveryNoteRequest struct {
	ClientID    string           `json:"client_id" validate:"required"`
	ProjectID   string           `json:"project_id" validate:"required"`
	Description string           `json:"description,omitempty"`
	Materials   []MaterialDTO    `json:"materials" validate:"dive"`
	Labor       []LaborDTO       `json:"labor" validate:"dive"`
	TotalCost   *decimal.Decimal `json:"total_cost,omitempty" validate:"omitnil,gte=0"`
}

// UpdateDeliveryNoteRequest body para PATCH /api/deliverynote/:id (solo sin firmar).
// Materials/Labor nil = sin cambios; lista vacía = vaciar.
type UpdateDeliveryNoteRequest struct {
	Description *string          `json:"description"`
	Materials   []MaterialDTO    `json:"materials" validate:"dive"`
	Labor       []LaborDTO       `json:"labor" validate:"dive"`
	TotalCost   *decimal.Decimal `json:"total_cost" validate:"omitnil,gte=0"`
}

// MaterialDTO línea de material.
type MaterialDTO struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gte=0"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// LaborDTO línea de horas.
type LaborDTO struct {
	Worker     string          `json:"worker" validate:"required"`
	Hours      decimal.Decimal `json:"hours" validate:"gte=0"`
	HourlyRate decimal.Decimal `json:"hourly_rate" validate:"gte=0"`
}

// DeliveryNoteResponse albarán en respuestas.
type DeliveryNoteResponse struct {
	ID           string          `json:"id"`
	OwnerUserID  string          `json:"owner_user_id"`
	CompanyCIF   *string         `json:"company_cif"`
	ClientID     string          `json:"client_id"`
	ProjectID    string          `json:"project_id"`
	Description  string          `json:"description,omitempty"`
	Materials    []MaterialDTO   `json:"materials"`
	Labor        []LaborDTO      `json:"labor"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Signed       bool            `json:"signed"`
	SignatureURL *string         `json:"signature_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SignatureResponse respuesta de PATCH /api/deliverynote/:id/signature.
type SignatureResponse struct {
	Message      string `json:"message"`
	SignatureURL string `json:"signature_url"`
}
