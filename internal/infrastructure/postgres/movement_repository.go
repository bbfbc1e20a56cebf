package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El libro es append-only: este adaptador no expone UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, position, record_id, movement_type, quantity, unit, batch_id, reference_id, reference_type, notes, created_at, created_by`

// Create persiste un movimiento. position lo asigna la BD (bigserial) y se
// lee de vuelta para devolver el orden total del libro.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, record_id, movement_type, quantity, unit, batch_id, reference_id, reference_type, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING position`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		movement.ID, movement.RecordID, string(movement.Type), movement.Quantity, movement.Unit,
		movement.BatchID, movement.ReferenceID, nullIfEmpty(movement.ReferenceType),
		nullIfEmpty(movement.Notes), movement.CreatedAt, createdBy,
	).Scan(&movement.Position)
	if err != nil {
		return fmt.Errorf("%w: create movement: %w", domain.ErrPersistence, err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get movement: %w", domain.ErrPersistence, err)
	}
	return m, nil
}

// ListByRecord lista los movimientos de un registro en orden de libro.
func (r *MovementRepo) ListByRecord(recordID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE record_id = $1
		ORDER BY position LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, recordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list by record: %w", domain.ErrPersistence, err)
	}
	return collectMovements(rows)
}

// ListByStore lista movimientos de una tienda en un rango de fechas,
// más reciente primero.
func (r *MovementRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT m.id, m.position, m.record_id, m.movement_type, m.quantity, m.unit, m.batch_id, m.reference_id, m.reference_type, m.notes, m.created_at, m.created_by
		FROM inventory_movements m
		JOIN inventory_records rec ON rec.id = m.record_id
		WHERE rec.store_id = $1`
	args := []any{storeID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND m.created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.position DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list by store: %w", domain.ErrPersistence, err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan movement: %w", domain.ErrPersistence, err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var typ string
	var refType, notes, createdBy *string
	err := row.Scan(&m.ID, &m.Position, &m.RecordID, &typ, &m.Quantity, &m.Unit,
		&m.BatchID, &m.ReferenceID, &refType, &notes, &m.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	if refType != nil {
		m.ReferenceType = *refType
	}
	if notes != nil {
		m.Notes = *notes
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
