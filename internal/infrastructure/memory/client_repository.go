package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepository)(nil)

// ClientRepository implementación en memoria de repository.ClientRepository.
type ClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*entity.Client
}

// NewClientRepository construye el repositorio vacío.
func NewClientRepository() *ClientRepository {
	return &ClientRepository{clients: make(map[string]*entity.Client)}
}

func cloneClient(c *entity.Client) *entity.Client {
	cp := *c
	return &cp
}

func (r *ClientRepository) cifTaken(cif, exceptID string) bool {
	for id, c := range r.clients {
		if id != exceptID && c.CIF == cif {
			return true
		}
	}
	return false
}

func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; ok || r.cifTaken(client.CIF, "") {
		return domain.ErrDuplicate
	}
	r.clients[client.ID] = cloneClient(client)
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.clients[id]; ok {
		return cloneClient(c), nil
	}
	return nil, nil
}

func (r *ClientRepository) GetByCIF(ctx context.Context, cif string) (*entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.CIF == cif {
			return cloneClient(c), nil
		}
	}
	return nil, nil
}

func (r *ClientRepository) ListByScope(ctx context.Context, scope repository.Scope, archived bool) ([]*entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Client, 0)
	for _, c := range r.clients {
		if c.Archived == archived && inScope(scope, c.OwnerUserID, c.CompanyCIF) {
			out = append(out, cloneClient(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.cifTaken(client.CIF, client.ID) {
		return domain.ErrDuplicate
	}
	r.clients[client.ID] = cloneClient(client)
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}
