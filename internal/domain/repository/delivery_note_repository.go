package repository

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// DeliveryNoteRepository define el puerto de persistencia para DeliveryNote (cabecera + líneas).
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error)
	ListByScope(ctx context.Context, scope Scope) ([]*entity.DeliveryNote, error)
	// Update reemplaza descripción, líneas y total. Devuelve domain.ErrSignedRecordImmutable
	// si el albarán se firmó entre la lectura y la escritura.
	Update(ctx context.Context, note *entity.DeliveryNote) error
	// MarkSigned fija signed=true y la URL de la firma solo si aún no estaba firmado;
	// en caso contrario devuelve domain.ErrAlreadySigned.
	MarkSigned(ctx context.Context, id, signatureURL string) error
	// Delete borra el albarán solo si no está firmado; si lo está devuelve domain.ErrSignedRecordImmutable.
	Delete(ctx context.Context, id string) error
}
