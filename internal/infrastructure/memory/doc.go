// Package memory implementa los repositorios en memoria (DB_DRIVER=memory y tests).
// Cada repositorio guarda copias de las entidades: lo que devuelve no comparte memoria con lo almacenado.
package memory

import "github.com/jhoicas/albaranes-api/internal/domain/repository"

func inScope(scope repository.Scope, owner, cif string) bool {
	if scope.UserID != "" && scope.UserID == owner {
		return true
	}
	return cif != "" && cif == scope.CompanyCIF
}
