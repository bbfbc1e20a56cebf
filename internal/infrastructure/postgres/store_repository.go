package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/stock-ledger/internal/domain"
	"github.com/invorya/stock-ledger/internal/domain/entity"
	"github.com/invorya/stock-ledger/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de persistencia para tiendas.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Create persiste una nueva tienda.
func (r *StoreRepo) Create(store *entity.Store) error {
	query := `
		INSERT INTO stores (id, company_id, parent_store_id, name, type, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		store.ID, store.CompanyID, store.ParentStoreID, store.Name, store.Type,
		store.Address, store.Phone, store.Email, store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert store: %w", domain.ErrPersistence, err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(id string) (*entity.Store, error) {
	query := `
		SELECT id, company_id, parent_store_id, name, type, address, phone, email, created_at, updated_at
		FROM stores WHERE id = $1`
	var s entity.Store
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CompanyID, &s.ParentStoreID, &s.Name, &s.Type,
		&s.Address, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get store: %w", domain.ErrPersistence, err)
	}
	return &s, nil
}

// Update actualiza una tienda existente.
func (r *StoreRepo) Update(store *entity.Store) error {
	query := `
		UPDATE stores SET name = $2, address = $3, phone = $4, email = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		store.ID, store.Name, store.Address, store.Phone, store.Email, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: update store: %w", domain.ErrPersistence, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: update store: fila %s no existe", domain.ErrPersistence, store.ID)
	}
	return nil
}

// ListByCompany lista tiendas de una empresa con paginación.
func (r *StoreRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Store, error) {
	query := `
		SELECT id, company_id, parent_store_id, name, type, address, phone, email, created_at, updated_at
		FROM stores WHERE company_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list stores: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.ParentStoreID, &s.Name, &s.Type,
			&s.Address, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan store: %w", domain.ErrPersistence, err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina una tienda. Falla si tiene registros de inventario (FK).
func (r *StoreRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete store: %w", domain.ErrPersistence, err)
	}
	return nil
}
