package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `id, store_id, item_id, quantity, unit, last_counted_at, created_at, updated_at`

// Get obtiene el registro de (tienda, artículo); nil si no existe.
func (r *InventoryRecordRepo) Get(storeID, itemID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE store_id = $1 AND item_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, storeID, itemID), "get record")
}

// GetByID obtiene un registro por ID.
func (r *InventoryRecordRepo) GetByID(id string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get record by id")
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRecordRepo) GetForUpdate(storeID, itemID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE store_id = $1 AND item_id = $2
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, storeID, itemID), "get record for update")
}

// Create inserta un registro nuevo. La fila queda bloqueada por la tx actual.
func (r *InventoryRecordRepo) Create(record *entity.InventoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_records (id, store_id, item_id, quantity, unit, last_counted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.StoreID, record.ItemID, record.Quantity, record.Unit,
		record.LastCountedAt, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: record (%s, %s) ya existe: %w", domain.ErrPersistence, record.StoreID, record.ItemID, err)
		}
		return fmt.Errorf("%w: insert record: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Save actualiza cantidad, last_counted_at y updated_at de un registro existente.
// La unidad no cambia después de creado el registro.
func (r *InventoryRecordRepo) Save(record *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records
		SET quantity = $2, last_counted_at = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		record.ID, record.Quantity, record.LastCountedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: update record: %w", domain.ErrPersistence, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: update record: fila %s no existe", domain.ErrPersistence, record.ID)
	}
	return nil
}

// ListByStore lista los registros de inventario de una tienda.
func (r *InventoryRecordRepo) ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE store_id = $1
		ORDER BY item_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.StoreID, &rec.ItemID, &rec.Quantity, &rec.Unit,
			&rec.LastCountedAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan record: %w", domain.ErrPersistence, err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

func (r *InventoryRecordRepo) scanOne(row pgx.Row, op string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(&rec.ID, &rec.StoreID, &rec.ItemID, &rec.Quantity, &rec.Unit,
		&rec.LastCountedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
	}
	return &rec, nil
}
