// Package lifecycle contiene las transiciones de estado de clientes, proyectos y albaranes.
//
//	Cliente / Proyecto:  Active ⇄ Archived      (HardDelete desde cualquier estado)
//	Albarán:             Unsigned → Signed      (sin vuelta atrás)
package lifecycle

import "github.com/jhoicas/albaranes-api/internal/domain"

// Archivable registro con borrado lógico.
type Archivable interface {
	IsArchived() bool
	SetArchived(bool)
}

// Signable registro con bloqueo de firma.
type Signable interface {
	IsSigned() bool
}

// Archive pasa de Active a Archived. Sobre un registro ya archivado devuelve ErrNotFound.
func Archive(r Archivable) error {
	if r.IsArchived() {
		return domain.ErrNotFound
	}
	r.SetArchived(true)
	return nil
}

// Restore pasa de Archived a Active. Sobre un registro activo devuelve ErrNotFound ("no archivado").
func Restore(r Archivable) error {
	if !r.IsArchived() {
		return domain.ErrNotFound
	}
	r.SetArchived(false)
	return nil
}

// VisibleByDefault indica si el registro aparece en listados y consultas por id normales.
func VisibleByDefault(r Archivable) bool {
	return !r.IsArchived()
}

// EnsureSignable comprueba que el albarán aún no está firmado.
func EnsureSignable(n Signable) error {
	if n.IsSigned() {
		return domain.ErrAlreadySigned
	}
	return nil
}

// EnsureMutable comprueba que el albarán se puede editar o borrar.
func EnsureMutable(n Signable) error {
	if n.IsSigned() {
		return domain.ErrSignedRecordImmutable
	}
	return nil
}
