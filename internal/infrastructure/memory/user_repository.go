package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

// NewUserRepository construye el repositorio vacío.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.Company != nil {
		company := *u.Company
		c.Company = &company
	}
	return &c
}

// checkUnique aplica los índices únicos de email, nif y company.cif.
func (r *UserRepository) checkUnique(u *entity.User) error {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
		if u.NIF != "" && other.NIF == u.NIF {
			return domain.ErrDuplicate
		}
		if cif := u.CompanyCIF(); cif != "" && other.CompanyCIF() == cif {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return domain.ErrDuplicate
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *UserRepository) find(match func(*entity.User) bool) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepository) GetByNIF(ctx context.Context, nif string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return nif != "" && u.NIF == nif }), nil
}

func (r *UserRepository) GetByCompanyCIF(ctx context.Context, cif string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return cif != "" && u.CompanyCIF() == cif }), nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Deleted = true
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
