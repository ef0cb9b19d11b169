package ports

import (
	"context"

	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// DeliveryNoteDocument datos necesarios para renderizar un albarán.
type DeliveryNoteDocument struct {
	Note    *entity.DeliveryNote
	User    *entity.User
	Client  *entity.Client
	Project *entity.Project
}

// DeliveryNoteRenderer genera la representación PDF de un albarán.
type DeliveryNoteRenderer interface {
	RenderDeliveryNote(ctx context.Context, doc DeliveryNoteDocument) ([]byte, error)
}
