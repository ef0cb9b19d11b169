package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación sobre PostgreSQL (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, owner_user_id, company_cif, client_id, name, description, address, postal_code, city,
	archived, created_at, updated_at`

// scopeFilter condición de alcance sobre owner_user_id ($1) y company_cif ($2).
const scopeFilter = `(owner_user_id = $1 OR ($2::text IS NOT NULL AND company_cif = $2))`

// Create persiste un proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OwnerUserID, nullString(p.CompanyCIF), p.ClientID, p.Name, p.Description, p.Address, p.PostalCode, p.City,
		p.Archived, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID (archivado o no).
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// FindByNameInScope busca un proyecto con ese nombre en el alcance, archivados incluidos.
func (r *ProjectRepo) FindByNameInScope(ctx context.Context, name string, scope repository.Scope) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` + scopeFilter + ` AND name = $3 LIMIT 1`
	p, err := scanProject(r.q.QueryRow(ctx, query, scope.UserID, nullString(scope.CompanyCIF), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find project by name: %w", err)
	}
	return p, nil
}

// ListByScope proyectos del usuario o de su empresa, más recientes primero.
func (r *ProjectRepo) ListByScope(ctx context.Context, scope repository.Scope, archived bool) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` + scopeFilter + ` AND archived = $3 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, scope.UserID, nullString(scope.CompanyCIF), archived)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update reescribe los campos mutables y el estado de archivado. El cliente no cambia.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	query := `
		UPDATE projects SET name = $2, description = $3, address = $4, postal_code = $5, city = $6,
			archived = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.Address, p.PostalCode, p.City, p.Archived, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el proyecto definitivamente.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	var companyCIF *string
	if err := row.Scan(
		&p.ID, &p.OwnerUserID, &companyCIF, &p.ClientID, &p.Name, &p.Description, &p.Address, &p.PostalCode, &p.City,
		&p.Archived, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.CompanyCIF = fromNull(companyCIF)
	return &p, nil
}
