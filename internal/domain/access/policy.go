// Package access decide quién puede ver o modificar un registro.
//
// El alcance de un usuario es la unión de lo que creó y lo que está etiquetado con el
// CIF de su empresa. No hay jerarquía: la pertenencia a empresa es una coincidencia de etiqueta.
package access

import "github.com/jhoicas/albaranes-api/internal/domain"

// Operation operación solicitada sobre un registro.
type Operation string

const (
	Read   Operation = "read"
	Write  Operation = "write"
	Delete Operation = "delete"
)

// Identity identidad resuelta del llamante. CompanyCIF vacío = sin empresa.
type Identity struct {
	UserID     string
	CompanyCIF string
}

// Owned es cualquier registro con propietario y etiqueta de empresa.
type Owned interface {
	Owner() string
	ScopeCIF() string
}

// Policy regla de acceso de un tipo de registro.
// OwnerOnlyMutations limita Write y Delete al creador (clientes).
type Policy struct {
	OwnerOnlyMutations bool
}

var (
	// ClientPolicy: lectura por propietario o empresa; cambios solo por el propietario.
	ClientPolicy = Policy{OwnerOnlyMutations: true}
	// ScopePolicy: propietario o empresa para todo (proyectos y albaranes).
	ScopePolicy = Policy{}
)

// InScope aplica la regla de alcance común.
func InScope(id Identity, r Owned) bool {
	if id.UserID != "" && id.UserID == r.Owner() {
		return true
	}
	cif := r.ScopeCIF()
	return cif != "" && id.CompanyCIF == cif
}

// CanAccess indica si id puede ejecutar op sobre r.
func (p Policy) CanAccess(id Identity, r Owned, op Operation) bool {
	if p.OwnerOnlyMutations && op != Read {
		return id.UserID != "" && id.UserID == r.Owner()
	}
	return InScope(id, r)
}

// Authorize control de acceso directo a un registro existente: ErrForbidden si no hay permiso.
func (p Policy) Authorize(id Identity, r Owned, op Operation) error {
	if !p.CanAccess(id, r, op) {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeReference control de referencias al crear otro registro (p. ej. el cliente de un proyecto).
// Un registro fuera de alcance se reporta como ErrNotFound para no revelar que existe.
func AuthorizeReference(id Identity, r Owned) error {
	if !InScope(id, r) {
		return domain.ErrNotFound
	}
	return nil
}

// CanAccess regla uniforme (ScopePolicy).
func CanAccess(id Identity, r Owned, op Operation) bool {
	return ScopePolicy.CanAccess(id, r, op)
}
