package dto

import "time"

// RegisterRequest entrada para registro: email y password (se hashea en el caso de uso).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin autonomo"`
}

// RegisterResponse salida del registro con token JWT.
type RegisterResponse struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Role          string `json:"role"`
	Token         string `json:"token"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// VerifyEmailRequest código de 6 cifras enviado al registrarse.
type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,numeric,len=6"`
}

// PersonalDataRequest datos personales del onboarding.
type PersonalDataRequest struct {
	Name     string `json:"name" validate:"required"`
	Surnames string `json:"surnames" validate:"required"`
	NIF      string `json:"nif" validate:"required"`
}

// CompanyDTO perfil de empresa.
type CompanyDTO struct {
	Name     string `json:"name" validate:"required"`
	CIF      string `json:"cif" validate:"required,len=9"`
	Street   string `json:"street" validate:"required"`
	Number   string `json:"number" validate:"required,numeric"`
	Postal   string `json:"postal" validate:"required,numeric"`
	City     string `json:"city" validate:"required"`
	Province string `json:"province" validate:"required"`
	LogoURL  string `json:"logo_url,omitempty" validate:"-"`
}

// UpdateCompanyRequest body para PATCH /api/user/company.
type UpdateCompanyRequest struct {
	Company CompanyDTO `json:"company"`
}

// UserResponse salida de un usuario (sin password ni código de verificación).
type UserResponse struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Role          string      `json:"role"`
	EmailVerified bool        `json:"email_verified"`
	Deleted       bool        `json:"deleted"`
	Name          string      `json:"name,omitempty"`
	Surnames      string      `json:"surnames,omitempty"`
	NIF           string      `json:"nif,omitempty"`
	Company       *CompanyDTO `json:"company,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CompanyResponse respuesta de PATCH /api/user/company.
type CompanyResponse struct {
	Message string     `json:"message"`
	Company CompanyDTO `json:"company"`
}

// LogoResponse respuesta de PATCH /api/user/logo.
type LogoResponse struct {
	Message string `json:"message"`
	LogoURL string `json:"logo_url"`
}
