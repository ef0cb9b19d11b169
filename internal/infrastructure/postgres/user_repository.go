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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// La empresa se guarda en columnas company_*; company_cif NULL = sin empresa.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, role, verification_code, attempts_remaining, email_verified, deleted,
	name, surnames, nif, company_name, company_cif, company_street, company_number, company_postal,
	company_city, company_province, company_logo_url, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query, userArgs(user)...)
	if err != nil {
		return mapUserWriteError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

// GetByNIF obtiene el usuario con ese NIF personal.
func (r *UserRepo) GetByNIF(ctx context.Context, nif string) (*entity.User, error) {
	return r.findOne(ctx, "nif = $1", nif)
}

// GetByCompanyCIF obtiene el usuario cuya empresa tiene ese CIF.
func (r *UserRepo) GetByCompanyCIF(ctx context.Context, cif string) (*entity.User, error) {
	return r.findOne(ctx, "company_cif = $1", cif)
}

// Update reescribe todos los campos mutables del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, role = $4, verification_code = $5,
			attempts_remaining = $6, email_verified = $7, deleted = $8, name = $9, surnames = $10, nif = $11,
			company_name = $12, company_cif = $13, company_street = $14, company_number = $15,
			company_postal = $16, company_city = $17, company_province = $18, company_logo_url = $19,
			updated_at = $20
		WHERE id = $1`
	args := userArgs(user)
	args = append(args[:19], user.UpdatedAt) // sin created_at
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return mapUserWriteError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el usuario como borrado.
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET deleted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la fila del usuario.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// userArgs argumentos en el orden de userColumns ($1..$21).
func userArgs(u *entity.User) []any {
	c := u.Company
	if c == nil {
		c = &entity.Company{}
	}
	return []any{
		u.ID, u.Email, u.PasswordHash, u.Role, u.VerificationCode, u.AttemptsRemaining, u.EmailVerified, u.Deleted,
		u.Name, u.Surnames, nullString(u.NIF),
		nullString(c.Name), nullString(c.CIF), nullString(c.Street), nullString(c.Number), nullString(c.Postal),
		nullString(c.City), nullString(c.Province), nullString(c.LogoURL),
		u.CreatedAt, u.UpdatedAt,
	}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var nif, name, cif, street, number, postal, city, province, logo *string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.VerificationCode, &u.AttemptsRemaining, &u.EmailVerified, &u.Deleted,
		&u.Name, &u.Surnames, &nif,
		&name, &cif, &street, &number, &postal, &city, &province, &logo,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.NIF = fromNull(nif)
	if cif != nil {
		u.Company = &entity.Company{
			Name:     fromNull(name),
			CIF:      *cif,
			Street:   fromNull(street),
			Number:   fromNull(number),
			Postal:   fromNull(postal),
			City:     fromNull(city),
			Province: fromNull(province),
			LogoURL:  fromNull(logo),
		}
	}
	return &u, nil
}

func mapUserWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		if violatedConstraint(err) == "users_email_key" {
			return domain.ErrEmailAlreadyExists
		}
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
