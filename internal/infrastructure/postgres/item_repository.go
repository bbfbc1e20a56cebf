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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, category_id, name, description, barcode, type, unit,
	cost_price, sell_price, reorder_point, created_at, updated_at`

// Create persiste un nuevo artículo de catálogo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.CategoryID, item.Name, item.Description,
		item.Barcode, item.Type, item.Unit,
		item.CostPrice, item.SellPrice, item.ReorderPoint,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: barcode %s", domain.ErrDuplicate, item.Barcode)
		}
		return fmt.Errorf("%w: insert item: %w", domain.ErrPersistence, err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCompanyAndBarcode busca un artículo por código de barras dentro de la empresa.
func (r *ItemRepo) GetByCompanyAndBarcode(companyID, barcode string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND barcode = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, barcode))
}

// Update actualiza un artículo. La unidad canónica nunca cambia después de creada.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items
		SET category_id = $2, name = $3, description = $4, barcode = $5,
		    cost_price = $6, sell_price = $7, reorder_point = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		item.ID, item.CategoryID, item.Name, item.Description, item.Barcode,
		item.CostPrice, item.SellPrice, item.ReorderPoint, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: update item: %w", domain.ErrPersistence, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: update item: fila %s no existe", domain.ErrPersistence, item.ID)
	}
	return nil
}

// ListByCompany lista artículos de una empresa con paginación.
func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items WHERE company_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Delete elimina un artículo del catálogo.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete item: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (r *ItemRepo) scanOne(row pgx.Row) (*entity.Item, error) {
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.CategoryID, &i.Name, &i.Description,
		&i.Barcode, &i.Type, &i.Unit,
		&i.CostPrice, &i.SellPrice, &i.ReorderPoint,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scan item: %w", domain.ErrPersistence, err)
	}
	return &i, nil
}
