package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

// ProjectRepository implementación en memoria de repository.ProjectRepository.
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*entity.Project
}

// NewProjectRepository construye el repositorio vacío.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[string]*entity.Project)}
}

func cloneProject(p *entity.Project) *entity.Project {
	cp := *p
	return &cp
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; ok {
		return domain.ErrDuplicate
	}
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.projects[id]; ok {
		return cloneProject(p), nil
	}
	return nil, nil
}

func (r *ProjectRepository) FindByNameInScope(ctx context.Context, name string, scope repository.Scope) (*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.projects {
		if p.Name == name && inScope(scope, p.OwnerUserID, p.CompanyCIF) {
			return cloneProject(p), nil
		}
	}
	return nil, nil
}

func (r *ProjectRepository) ListByScope(ctx context.Context, scope repository.Scope, archived bool) ([]*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Project, 0)
	for _, p := range r.projects {
		if p.Archived == archived && inScope(scope, p.OwnerUserID, p.CompanyCIF) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return domain.ErrNotFound
	}
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}
