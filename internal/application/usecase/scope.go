package usecase

import (
	"github.com/jhoicas/albaranes-api/internal/domain/access"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

func scopeOf(id access.Identity) repository.Scope {
	return repository.Scope{UserID: id.UserID, CompanyCIF: id.CompanyCIF}
}

// nullable "" → nil para campos opcionales en respuestas.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
