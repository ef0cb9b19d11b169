package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepository)(nil)

// DeliveryNoteRepository implementación en memoria de repository.DeliveryNoteRepository.
// Las operaciones condicionales (MarkSigned, Delete) se evalúan bajo el mismo lock que la escritura.
type DeliveryNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]*entity.DeliveryNote
}

// NewDeliveryNoteRepository construye el repositorio vacío.
func NewDeliveryNoteRepository() *DeliveryNoteRepository {
	return &DeliveryNoteRepository{notes: make(map[string]*entity.DeliveryNote)}
}

func cloneNote(n *entity.DeliveryNote) *entity.DeliveryNote {
	cp := *n
	cp.Materials = append([]entity.Material(nil), n.Materials...)
	cp.Labor = append([]entity.Labor(nil), n.Labor...)
	return &cp
}

func (r *DeliveryNoteRepository) Create(ctx context.Context, note *entity.DeliveryNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[note.ID]; ok {
		return domain.ErrDuplicate
	}
	r.notes[note.ID] = cloneNote(note)
	return nil
}

func (r *DeliveryNoteRepository) GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.notes[id]; ok {
		return cloneNote(n), nil
	}
	return nil, nil
}

func (r *DeliveryNoteRepository) ListByScope(ctx context.Context, scope repository.Scope) ([]*entity.DeliveryNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.DeliveryNote, 0)
	for _, n := range r.notes {
		if !n.Archived && inScope(scope, n.OwnerUserID, n.CompanyCIF) {
			out = append(out, cloneNote(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *DeliveryNoteRepository) Update(ctx context.Context, note *entity.DeliveryNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.notes[note.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Signed {
		return domain.ErrSignedRecordImmutable
	}
	updated := cloneNote(current)
	updated.Description = note.Description
	updated.Materials = append([]entity.Material(nil), note.Materials...)
	updated.Labor = append([]entity.Labor(nil), note.Labor...)
	updated.TotalCost = note.TotalCost
	updated.UpdatedAt = note.UpdatedAt
	r.notes[note.ID] = updated
	return nil
}

func (r *DeliveryNoteRepository) MarkSigned(ctx context.Context, id, signatureURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return domain.ErrNotFound
	}
	if n.Signed {
		return domain.ErrAlreadySigned
	}
	n.Signed = true
	n.SignatureURL = signatureURL
	n.UpdatedAt = time.Now()
	return nil
}

func (r *DeliveryNoteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return domain.ErrNotFound
	}
	if n.Signed {
		return domain.ErrSignedRecordImmutable
	}
	delete(r.notes, id)
	return nil
}
