package entity

import "time"

// Roles válidos para User.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleAutonomo = "autonomo"
)

// ValidRole indica si r es uno de los roles admitidos.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin || r == RoleAutonomo
}

// User representa una cuenta del sistema. Puede tener un perfil de empresa embebido;
// su CIF es la etiqueta de alcance que comparte con otros usuarios de la misma empresa.
type User struct {
	ID                string
	Email             string
	PasswordHash      string // bcrypt hash
	Role              string // user, admin, autonomo
	VerificationCode  string // 6 dígitos
	AttemptsRemaining int
	EmailVerified     bool
	Deleted           bool // soft delete
	Name              string
	Surnames          string
	NIF               string
	Company           *Company // nil = sin perfil de empresa
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CompanyCIF devuelve el CIF de la empresa del usuario o "" si no tiene.
func (u *User) CompanyCIF() string {
	if u == nil || u.Company == nil {
		return ""
	}
	return u.Company.CIF
}
