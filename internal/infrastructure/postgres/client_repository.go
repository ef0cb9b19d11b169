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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, owner_user_id, company_cif, name, cif, email, phone, address, archived, created_at, updated_at`

// Create persiste un cliente. CIF repetido (unique clients_cif_key) → domain.ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.OwnerUserID, nullString(c.CompanyCIF), c.Name, c.CIF, c.Email, c.Phone, c.Address,
		c.Archived, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID (archivado o no).
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.findOne(ctx, "id = $1", id)
}

// GetByCIF obtiene un cliente por CIF.
func (r *ClientRepo) GetByCIF(ctx context.Context, cif string) (*entity.Client, error) {
	return r.findOne(ctx, "cif = $1", cif)
}

// ListByScope clientes del usuario o de su empresa, más recientes primero.
func (r *ClientRepo) ListByScope(ctx context.Context, scope repository.Scope, archived bool) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE ` + scopeFilter + ` AND archived = $3 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, scope.UserID, nullString(scope.CompanyCIF), archived)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update reescribe los campos mutables y el estado de archivado.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, cif = $3, email = $4, phone = $5, address = $6, archived = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.CIF, c.Email, c.Phone, c.Address, c.Archived, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el cliente definitivamente. Sus proyectos y albaranes no se tocan.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) findOne(ctx context.Context, where string, arg any) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var companyCIF *string
	if err := row.Scan(
		&c.ID, &c.OwnerUserID, &companyCIF, &c.Name, &c.CIF, &c.Email, &c.Phone, &c.Address,
		&c.Archived, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.CompanyCIF = fromNull(companyCIF)
	return &c, nil
}
