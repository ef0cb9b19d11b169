package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)

// DeliveryNoteRepo implementación sobre PostgreSQL. Cabecera en delivery_notes y líneas en
// delivery_note_materials / delivery_note_labor, escritas en la misma transacción.
type DeliveryNoteRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewDeliveryNoteRepository construye el adaptador.
func NewDeliveryNoteRepository(pool *pgxpool.Pool) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{pool: pool, tx: NewTxRunner(pool)}
}

const noteColumns = `id, owner_user_id, company_cif, client_id, project_id, description, total_cost, signed,
	signature_url, archived, created_at, updated_at`

// Create persiste cabecera y líneas.
func (r *DeliveryNoteRepo) Create(ctx context.Context, n *entity.DeliveryNote) error {
	return r.tx.Run(ctx, func(q Querier) error {
		query := `INSERT INTO delivery_notes (` + noteColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		_, err := q.Exec(ctx, query,
			n.ID, n.OwnerUserID, nullString(n.CompanyCIF), n.ClientID, n.ProjectID, n.Description, n.TotalCost, n.Signed,
			nullString(n.SignatureURL), n.Archived, n.CreatedAt, n.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert delivery note: %w", err)
		}
		return insertLines(ctx, q, n)
	})
}

// GetByID obtiene el albarán con sus líneas.
func (r *DeliveryNoteRepo) GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	n, err := scanNote(r.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM delivery_notes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery note: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.DeliveryNote{n}); err != nil {
		return nil, err
	}
	return n, nil
}

// ListByScope albaranes del usuario o de su empresa con sus líneas, más recientes primero.
func (r *DeliveryNoteRepo) ListByScope(ctx context.Context, scope repository.Scope) ([]*entity.DeliveryNote, error) {
	query := `SELECT ` + noteColumns + ` FROM delivery_notes WHERE ` + scopeFilter + ` AND NOT archived ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, scope.UserID, nullString(scope.CompanyCIF))
	if err != nil {
		return nil, fmt.Errorf("list delivery notes: %w", err)
	}
	list := make([]*entity.DeliveryNote, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan delivery note: %w", err)
		}
		list = append(list, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list delivery notes: %w", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update reemplaza descripción, total y líneas solo si el albarán sigue sin firmar.
func (r *DeliveryNoteRepo) Update(ctx context.Context, n *entity.DeliveryNote) error {
	return r.tx.Run(ctx, func(q Querier) error {
		tag, err := q.Exec(ctx, `
			UPDATE delivery_notes SET description = $2, total_cost = $3, updated_at = $4
			WHERE id = $1 AND NOT signed`,
			n.ID, n.Description, n.TotalCost, n.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update delivery note: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return r.conditionalFailure(ctx, q, n.ID, domain.ErrSignedRecordImmutable)
		}
		if _, err := q.Exec(ctx, `DELETE FROM delivery_note_materials WHERE delivery_note_id = $1`, n.ID); err != nil {
			return fmt.Errorf("delete materials: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM delivery_note_labor WHERE delivery_note_id = $1`, n.ID); err != nil {
			return fmt.Errorf("delete labor: %w", err)
		}
		return insertLines(ctx, q, n)
	})
}

// MarkSigned firma el albarán si aún no lo estaba (UPDATE condicional).
func (r *DeliveryNoteRepo) MarkSigned(ctx context.Context, id, signatureURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE delivery_notes SET signed = TRUE, signature_url = $2, updated_at = NOW()
		WHERE id = $1 AND NOT signed`, id, signatureURL)
	if err != nil {
		return fmt.Errorf("sign delivery note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalFailure(ctx, r.pool, id, domain.ErrAlreadySigned)
	}
	return nil
}

// Delete borra el albarán si no está firmado. Las líneas caen por ON DELETE CASCADE.
func (r *DeliveryNoteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM delivery_notes WHERE id = $1 AND NOT signed`, id)
	if err != nil {
		return fmt.Errorf("delete delivery note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalFailure(ctx, r.pool, id, domain.ErrSignedRecordImmutable)
	}
	return nil
}

// conditionalFailure distingue "no existe" de "existe pero está firmado" tras un UPDATE/DELETE sin filas.
func (r *DeliveryNoteRepo) conditionalFailure(ctx context.Context, q Querier, id string, signedErr error) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM delivery_notes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check delivery note: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return signedErr
}

func insertLines(ctx context.Context, q Querier, n *entity.DeliveryNote) error {
	for i, m := range n.Materials {
		_, err := q.Exec(ctx, `
			INSERT INTO delivery_note_materials (delivery_note_id, position, description, quantity, unit, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			n.ID, i, m.Description, m.Quantity, m.Unit, m.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert material: %w", err)
		}
	}
	for i, l := range n.Labor {
		_, err := q.Exec(ctx, `
			INSERT INTO delivery_note_labor (delivery_note_id, position, worker, hours, hourly_rate)
			VALUES ($1, $2, $3, $4, $5)`,
			n.ID, i, l.Worker, l.Hours, l.HourlyRate,
		)
		if err != nil {
			return fmt.Errorf("insert labor: %w", err)
		}
	}
	return nil
}

// loadLines carga materiales y horas de varios albaranes con dos consultas.
func (r *DeliveryNoteRepo) loadLines(ctx context.Context, notes []*entity.DeliveryNote) error {
	if len(notes) == 0 {
		return nil
	}
	byID := make(map[string]*entity.DeliveryNote, len(notes))
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		n.Materials = make([]entity.Material, 0)
		n.Labor = make([]entity.Labor, 0)
		byID[n.ID] = n
		ids = append(ids, n.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT delivery_note_id, description, quantity, unit, unit_price
		FROM delivery_note_materials WHERE delivery_note_id = ANY($1::uuid[])
		ORDER BY delivery_note_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load materials: %w", err)
	}
	for rows.Next() {
		var noteID string
		var m entity.Material
		if err := rows.Scan(&noteID, &m.Description, &m.Quantity, &m.Unit, &m.UnitPrice); err != nil {
			rows.Close()
			return fmt.Errorf("scan material: %w", err)
		}
		byID[noteID].Materials = append(byID[noteID].Materials, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load materials: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT delivery_note_id, worker, hours, hourly_rate
		FROM delivery_note_labor WHERE delivery_note_id = ANY($1::uuid[])
		ORDER BY delivery_note_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load labor: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var noteID string
		var l entity.Labor
		if err := rows.Scan(&noteID, &l.Worker, &l.Hours, &l.HourlyRate); err != nil {
			return fmt.Errorf("scan labor: %w", err)
		}
		byID[noteID].Labor = append(byID[noteID].Labor, l)
	}
	return rows.Err()
}

func scanNote(row pgx.Row) (*entity.DeliveryNote, error) {
	var n entity.DeliveryNote
	var companyCIF, signatureURL *string
	if err := row.Scan(
		&n.ID, &n.OwnerUserID, &companyCIF, &n.ClientID, &n.ProjectID, &n.Description, &n.TotalCost, &n.Signed,
		&signatureURL, &n.Archived, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return nil, err
	}
	n.CompanyCIF = fromNull(companyCIF)
	n.SignatureURL = fromNull(signatureURL)
	return &n, nil
}
